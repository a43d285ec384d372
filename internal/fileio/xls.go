package fileio

import (
	"bytes"
	"io"

	xls "github.com/extrame/xls"
	"github.com/rotisserie/eris"

	"intake-service/internal/intake/model"
)

// computeMaxCols probes every row for its last non-empty cell; Row.LastCol
// is not reliable on files written by older tools.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := maxCols; j < probeMax; j++ {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
			}
		}
	}
	return maxCols
}

func readXLS(r io.Reader) (model.Grid, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1252"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = eris.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	maxCols := computeMaxCols(sheet)
	g := make(model.Grid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = row.Col(j)
			}
		}
		g = append(g, textRow(cols))
	}
	return g, nil
}
