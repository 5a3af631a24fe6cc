package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tourlog/internal/model"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestParse_HeaderKeyedRowsSkippingBlanks(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"رقم الصادر", "الاسم الأول", "عمود آخر"},
		{"OUT-1", "Ali", "x"},
		{"", "", ""},
		{"OUT-2", "Omar", ""},
	})

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "OUT-1", rows[0]["رقم الصادر"])
	assert.Equal(t, "Ali", rows[0]["الاسم الأول"])
	assert.Equal(t, "Omar", rows[1]["الاسم الأول"])
}

func TestParse_NoDataRows(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"رقم الصادر", "الاسم الأول"},
	})

	_, err := Parse(buf)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("outgoing,first\n1,2\n"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDataRows)
}

func TestMapRow(t *testing.T) {
	row := RawRow{
		"رقم الصادر":   " OUT-9 ",
		"الاسم الأول":  "A",
		"الاسم الثاني": "B",
		"الاسم الثالث": "C",
		"الاسم الرابع": "D",
		"تاريخ الجولة": "45292",
		"الرتبة":       "Captain",
		"المحافظة":     "X",
		"مركز الشرطة":  "Central",
		"unrecognised": "ignored",
	}

	c := MapRow(row)
	assert.Equal(t, "OUT-9", c.OutgoingNumber)
	assert.Equal(t, "A", c.FirstName)
	assert.Equal(t, "D", c.FourthName)
	assert.Equal(t, "2024-01-01", c.TourDate)
	assert.Equal(t, "Captain", c.Rank)
	assert.Equal(t, "Central", c.PoliceStation)
	assert.Empty(t, c.MilitaryNumber)
	assert.Empty(t, c.Office)
}

func TestMapRow_TextDatesPassThrough(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "2024-03-05"},
		{"05/03/2024", "05/03/2024"},
		{"not a date", "not a date"},
		{"", ""},
		{"45351", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := MapRow(RawRow{"تاريخ الجولة": tt.in})
			assert.Equal(t, tt.want, c.TourDate)
		})
	}
}

func TestParseMapRoundTripsDateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "تاريخ الجولة"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-15", MapRow(rows[0]).TourDate)
}

func TestWriteWorkbook_ReimportsCleanly(t *testing.T) {
	records := []model.Record{
		{
			RecordNumber:   7,
			OutgoingNumber: "OUT-7",
			FirstName:      "A",
			SecondName:     "B",
			ThirdName:      "C",
			FourthName:     "D",
			TourDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Rank:           "Major",
			Governorate:    "Basra",
			Ports:          "Umm Qasr",
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, WriteWorkbook(buf, records))

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	c := MapRow(rows[0])
	assert.Equal(t, "OUT-7", c.OutgoingNumber)
	assert.Equal(t, "2024-06-01", c.TourDate)
	assert.Equal(t, "Umm Qasr", c.Ports)
	assert.Equal(t, "Basra", c.Governorate)
}
