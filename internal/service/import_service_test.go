package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourlog/internal/apperr"
	"tourlog/internal/importer"
	"tourlog/internal/model"
)

func candidate(n int) importer.CandidateRecord {
	return importer.CandidateRecord{
		OutgoingNumber: "OUT-" + string(rune('0'+n)),
		FirstName:      "A",
		SecondName:     "B",
		ThirdName:      "C",
		FourthName:     "D",
		TourDate:       "2024-01-01",
		Rank:           "Captain",
		Governorate:    "X",
	}
}

func TestImportBatch_PartialSuccess(t *testing.T) {
	const n = 5
	for k := 1; k <= n; k++ {
		records := &fakeRecordRepo{}
		audits := &fakeAuditRepo{}
		events := &recordingPublisher{}
		recordSvc := NewRecordService(records, audits, fakeTx{}, events)
		svc := NewImportService(recordSvc, audits, events)

		rows := make([]importer.CandidateRecord, 0, n)
		for i := 1; i <= n; i++ {
			rows = append(rows, candidate(i))
		}
		rows[k-1].ThirdName = ""

		res, err := svc.ImportBatch(context.Background(), actor(), rows)
		require.NoError(t, err)
		assert.Equal(t, n-1, res.Success)
		assert.Equal(t, 1, res.Failed)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, k, res.Errors[0].Row)
		assert.Contains(t, res.Errors[0].Reason, "thirdName")

		list, err := recordSvc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, n-1)

		// one summary event, none per row
		assert.Equal(t, []string{EventImportCompleted}, events.names())
		assert.Contains(t, audits.actions(), model.ActionImportRecords)
	}
}

func TestImportBatch_NoDedup(t *testing.T) {
	records := &fakeRecordRepo{}
	audits := &fakeAuditRepo{}
	svc := NewImportService(NewRecordService(records, audits, fakeTx{}, nil), audits, nil)
	rows := []importer.CandidateRecord{candidate(1), candidate(2)}

	_, err := svc.ImportBatch(context.Background(), actor(), rows)
	require.NoError(t, err)
	_, err = svc.ImportBatch(context.Background(), actor(), rows)
	require.NoError(t, err)
	assert.Len(t, records.records, 4)
}

func TestImportBatch_Empty(t *testing.T) {
	audits := &fakeAuditRepo{}
	svc := NewImportService(NewRecordService(&fakeRecordRepo{}, audits, fakeTx{}, nil), audits, nil)

	_, err := svc.ImportBatch(context.Background(), actor(), nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestImportFile_RejectsNonWorkbook(t *testing.T) {
	audits := &fakeAuditRepo{}
	svc := NewImportService(NewRecordService(&fakeRecordRepo{}, audits, fakeTx{}, nil), audits, nil)

	_, err := svc.ImportFile(context.Background(), actor(), bytes.NewBufferString("not a workbook"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestImportFile_ExportedWorkbookReimports(t *testing.T) {
	records := &fakeRecordRepo{}
	audits := &fakeAuditRepo{}
	recordSvc := NewRecordService(records, audits, fakeTx{}, nil)
	_, err := recordSvc.Create(context.Background(), actor(), validRecord())
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, importer.WriteWorkbook(buf, records.records))

	svc := NewImportService(recordSvc, audits, nil)
	res, err := svc.ImportFile(context.Background(), actor(), buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, records.records, 2)
	assert.Equal(t, records.records[0].TourDate, records.records[1].TourDate)
}
