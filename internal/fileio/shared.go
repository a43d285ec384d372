// Package fileio turns uploaded spreadsheets into raw grids and tables back
// into workbooks. Header handling is left to the caller.
package fileio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"intake-service/internal/intake/model"
	"intake-service/internal/utils"
)

var ErrUnsupported = eris.New("unsupported file type")

// ReadGrid picks the reader by extension and returns the first sheet as a
// grid. Trailing blank rows and cells are dropped.
func ReadGrid(r io.Reader, filename string) (model.Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		g   model.Grid
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		g, err = readXLSX(r)
	case ".xls":
		g, err = readXLS(r)
	case ".csv", ".txt":
		g, err = readCSV(r)
	default:
		return nil, eris.Wrapf(ErrUnsupported, "%s", filename)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", filename)
	}
	return trimGrid(g), nil
}

// ReadFile reads the spreadsheet at path with ReadGrid.
func ReadFile(path string) (model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open")
	}
	defer f.Close()
	return ReadGrid(f, path)
}

// FixedName is the file name of the auto-fixed XLSX copy of filename.
func FixedName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "upload"
	}
	return base + "_fixed.xlsx"
}

func normalizeCell(s string) string {
	return strings.TrimSpace(s)
}

// textCell types a cell from a source that only has strings. Only plain
// numbers become numbers, so "000123" and 18-digit codes stay text. Number
// cells keep the source spelling: "12.50" stays "12.50" for comparisons.
func textCell(s string) model.Cell {
	s = normalizeCell(s)
	if s == "" {
		return model.Empty()
	}
	if f, ok := utils.LooksNumeric(s); ok {
		return model.NumberRaw(f, s)
	}
	return model.Text(s)
}

func textRow(rec []string) []model.Cell {
	out := make([]model.Cell, len(rec))
	for i, v := range rec {
		out[i] = textCell(v)
	}
	return out
}

func trimGrid(g model.Grid) model.Grid {
	for i, row := range g {
		n := len(row)
		for n > 0 && row[n-1].IsEmpty() {
			n--
		}
		g[i] = row[:n]
	}
	n := len(g)
	for n > 0 && len(g[n-1]) == 0 {
		n--
	}
	return g[:n]
}
