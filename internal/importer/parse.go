// Package importer reads inspection records out of xlsx workbooks and writes
// them back in the same column layout.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoDataRows is returned when the first sheet has a header row but nothing under it
var ErrNoDataRows = errors.New("spreadsheet contains no data rows")

// RawRow is one data row keyed by its column header
type RawRow map[string]string

// Parse reads the first sheet of an xlsx workbook. The first non-blank row is
// the header row; fully blank rows are skipped.
func Parse(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoDataRows
	}

	// raw values keep date cells as serial numbers
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var header []string
	out := make([]RawRow, 0, len(rows))
	for _, cells := range rows {
		if isBlank(cells) {
			continue
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, c := range cells {
				header[i] = strings.TrimSpace(c)
			}
			continue
		}

		row := make(RawRow, len(header))
		for i, key := range header {
			if key == "" || i >= len(cells) {
				continue
			}
			row[key] = cells[i]
		}
		out = append(out, row)
	}

	if len(out) == 0 {
		return nil, ErrNoDataRows
	}
	return out, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
