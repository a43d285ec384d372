package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"

	"intake-service/internal/intake/model"
)

// WriteXLSX writes t as a single-sheet workbook: header first, then every
// row in order. Numbers stay numbers; text is written as text even when it
// looks numeric, so codes keep their leading zeros.
func WriteXLSX(w io.Writer, t *model.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := range t.Rows {
		vals := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			c := t.Cell(i, col)
			switch {
			case c.IsEmpty():
				vals[j] = nil
			case c.Kind == model.CellNumber:
				vals[j] = c.Num
			default:
				vals[j] = c.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
