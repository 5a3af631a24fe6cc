package importer

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"tourlog/internal/model"
)

// CandidateRecord is an unvalidated record as read from a spreadsheet row or
// sent by a client that mapped the rows itself.
type CandidateRecord struct {
	OutgoingNumber string `json:"outgoingNumber"`
	FirstName      string `json:"firstName"`
	SecondName     string `json:"secondName"`
	ThirdName      string `json:"thirdName"`
	FourthName     string `json:"fourthName"`
	TourDate       string `json:"tourDate"`
	Rank           string `json:"rank"`
	Governorate    string `json:"governorate"`
	MilitaryNumber string `json:"militaryNumber"`
	ActionType     string `json:"actionType"`
	Ports          string `json:"ports"`
	RecordedNotes  string `json:"recordedNotes"`
	Office         string `json:"office"`
	PoliceStation  string `json:"policeStation"`
}

// Column pairs a spreadsheet header with the record field it fills
type Column struct {
	Header string
	Field  string
	set    func(*CandidateRecord, string)
	get    func(model.Record) string
}

// Headers is the recognised column layout, in export order
var Headers = []Column{
	{"رقم الصادر", "outgoingNumber", func(c *CandidateRecord, v string) { c.OutgoingNumber = v }, func(r model.Record) string { return r.OutgoingNumber }},
	{"الاسم الأول", "firstName", func(c *CandidateRecord, v string) { c.FirstName = v }, func(r model.Record) string { return r.FirstName }},
	{"الاسم الثاني", "secondName", func(c *CandidateRecord, v string) { c.SecondName = v }, func(r model.Record) string { return r.SecondName }},
	{"الاسم الثالث", "thirdName", func(c *CandidateRecord, v string) { c.ThirdName = v }, func(r model.Record) string { return r.ThirdName }},
	{"الاسم الرابع", "fourthName", func(c *CandidateRecord, v string) { c.FourthName = v }, func(r model.Record) string { return r.FourthName }},
	{"تاريخ الجولة", "tourDate", func(c *CandidateRecord, v string) { c.TourDate = normalizeDate(v) }, func(r model.Record) string { return r.TourDate.Format(model.DateLayout) }},
	{"الرتبة", "rank", func(c *CandidateRecord, v string) { c.Rank = v }, func(r model.Record) string { return r.Rank }},
	{"المحافظة", "governorate", func(c *CandidateRecord, v string) { c.Governorate = v }, func(r model.Record) string { return r.Governorate }},
	{"الرقم العسكري", "militaryNumber", func(c *CandidateRecord, v string) { c.MilitaryNumber = v }, func(r model.Record) string { return r.MilitaryNumber }},
	{"نوع الإجراء", "actionType", func(c *CandidateRecord, v string) { c.ActionType = v }, func(r model.Record) string { return r.ActionType }},
	{"المنافذ", "ports", func(c *CandidateRecord, v string) { c.Ports = v }, func(r model.Record) string { return r.Ports }},
	{"الملاحظات المدونة", "recordedNotes", func(c *CandidateRecord, v string) { c.RecordedNotes = v }, func(r model.Record) string { return r.RecordedNotes }},
	{"المكتب", "office", func(c *CandidateRecord, v string) { c.Office = v }, func(r model.Record) string { return r.Office }},
	{"مركز الشرطة", "policeStation", func(c *CandidateRecord, v string) { c.PoliceStation = v }, func(r model.Record) string { return r.PoliceStation }},
}

var columnByHeader = func() map[string]Column {
	m := make(map[string]Column, len(Headers))
	for _, c := range Headers {
		m[c.Header] = c
	}
	return m
}()

// MapRow fills a candidate from the recognised headers. Unknown headers are
// ignored and missing ones stay empty.
func MapRow(row RawRow) CandidateRecord {
	var c CandidateRecord
	for header, value := range row {
		col, ok := columnByHeader[strings.TrimSpace(header)]
		if !ok {
			continue
		}
		col.set(&c, strings.TrimSpace(value))
	}
	return c
}

// MapRows maps every parsed row, preserving order
func MapRows(rows []RawRow) []CandidateRecord {
	out := make([]CandidateRecord, len(rows))
	for i, r := range rows {
		out[i] = MapRow(r)
	}
	return out
}

// normalizeDate turns a spreadsheet date serial (1900 system) into YYYY-MM-DD.
// Anything else is returned unchanged for the validator to judge.
func normalizeDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(model.DateLayout)
}
