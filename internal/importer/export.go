package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tourlog/internal/model"
)

// SheetName is the name of the single sheet written by WriteWorkbook
const SheetName = "السجلات"

// WriteWorkbook writes the records as an xlsx workbook using the import
// header layout, so the output can be imported again unchanged.
func WriteWorkbook(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
		return fmt.Errorf("failed to set sheet direction: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, 0, len(Headers)+1)
	header = append(header, "رقم السجل")
	for _, col := range Headers {
		header = append(header, col.Header)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		row := make([]interface{}, 0, len(Headers)+1)
		row = append(row, rec.RecordNumber)
		for _, col := range Headers {
			row = append(row, col.get(rec))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
