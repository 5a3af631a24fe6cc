package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourlog/internal/apperr"
	"tourlog/internal/importer"
	"tourlog/internal/model"
)

func TestReportService(t *testing.T) {
	records := &fakeRecordRepo{}
	users := &fakeUserRepo{}
	stations := &fakeRefRepo[model.PoliceStation, *model.PoliceStation]{}
	ports := &fakeRefRepo[model.Port, *model.Port]{}
	recordSvc := NewRecordService(records, &fakeAuditRepo{}, fakeTx{}, nil)
	svc := NewReportService(records, users, stations, ports)
	ctx := context.Background()

	for _, gov := range []string{"X", "Y", "X"} {
		req := validRecord()
		req.Governorate = gov
		_, err := recordSvc.Create(ctx, actor(), req)
		require.NoError(t, err)
	}
	require.NoError(t, stations.Create(ctx, &model.PoliceStation{Name: "Central"}))

	t.Run("summary", func(t *testing.T) {
		res, err := svc.Summary(ctx, "", RecordQuery{})
		require.NoError(t, err)
		assert.Equal(t, "governorate", res.GroupBy)
		assert.Equal(t, int64(3), res.Total)
		assert.Equal(t, []model.GroupCount{{Key: "X", Count: 2}, {Key: "Y", Count: 1}}, res.Rows)
	})

	t.Run("summary_rejects_unknown_group", func(t *testing.T) {
		_, err := svc.Summary(ctx, "password_hash", RecordQuery{})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("export", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, svc.Export(ctx, RecordQuery{Governorate: strp("X")}, buf))
		rows, err := importer.Parse(buf)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("dashboard", func(t *testing.T) {
		stats, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalRecords)
		assert.Equal(t, int64(3), stats.RecordsThisMonth)
		assert.Equal(t, int64(1), stats.TotalStations)
		assert.Equal(t, int64(0), stats.TotalPorts)
		require.NotEmpty(t, stats.TopGovernorates)
		assert.Equal(t, "X", stats.TopGovernorates[0].Key)
	})
}

func TestReportService_DashboardMonthBoundary(t *testing.T) {
	records := &fakeRecordRepo{records: []model.Record{
		{CreatedAt: time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewReportService(records, &fakeUserRepo{}, &fakeRefRepo[model.PoliceStation, *model.PoliceStation]{}, &fakeRefRepo[model.Port, *model.Port]{}).(*reportService)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRecords)
	assert.Equal(t, int64(1), stats.RecordsThisMonth)
}
