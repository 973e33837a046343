// Package spreadsheet converts between .xlsx workbooks and catalog rows.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"seenjeem-admin/internal/app"
)

// ReadRows parses the first sheet of a workbook. The first row is the header;
// every following non-blank row becomes a RawRow keyed by header. Blank cells
// are omitted and boolean cells decode to bool, so the importer sees the same
// shapes a JSON upload would carry.
func ReadRows(r io.Reader) ([]app.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []app.RawRow{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]app.RawRow, 0, len(rows)-1)
	for r, cells := range rows[1:] {
		row := app.RawRow{}
		for c, value := range cells {
			if c >= len(header) || header[c] == "" || value == "" {
				continue
			}
			row[header[c]] = cellValue(f, sheet, c+1, r+2, value)
		}
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func cellValue(f *excelize.File, sheet string, col, row int, value string) any {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil || typ != excelize.CellTypeBool {
		return value
	}
	return value == "1" || strings.EqualFold(value, "TRUE")
}
