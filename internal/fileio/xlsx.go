package fileio

import (
	"bytes"
	"io"
	"strconv"

	excelize "github.com/xuri/excelize/v2"

	"intake-service/internal/intake/model"
)

func readXLSX(r io.Reader) (model.Grid, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	g := make(model.Grid, len(rows))
	for i, row := range rows {
		cells := make([]model.Cell, len(row))
		for j, raw := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return nil, err
			}
			cells[j] = xlsxCell(typ, raw)
		}
		g[i] = cells
	}
	return g, nil
}

// xlsxCell keeps stored numbers as numbers and strings as text, whatever
// they look like. Numeric formula results carry no type and read as numbers.
func xlsxCell(typ excelize.CellType, raw string) model.Cell {
	v := normalizeCell(raw)
	if v == "" {
		return model.Empty()
	}
	if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return model.Number(f)
		}
	}
	return model.Text(v)
}
