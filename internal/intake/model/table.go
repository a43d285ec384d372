package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one spreadsheet value: empty, text or number.
// For number cells Text keeps the source spelling when the reader had one.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

func Empty() Cell           { return Cell{} }
func Text(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func Number(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }
func NumberRaw(f float64, raw string) Cell {
	return Cell{Kind: CellNumber, Num: f, Text: raw}
}

func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellNumber:
		return math.IsNaN(c.Num)
	default:
		return false
	}
}

// String is the display form of the cell; NaN and missing become "".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return ""
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Grid is a raw sheet without a header row applied.
type Grid [][]Cell

type Row map[string]Cell

// Table is a grid with a header row applied. Columns keeps sheet order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Line maps a 0-based data row to its spreadsheet line (1-based, plus the header).
func Line(i int) int { return i + 2 }

func (t *Table) Cell(i int, col string) Cell {
	if i < 0 || i >= len(t.Rows) {
		return Cell{}
	}
	return t.Rows[i][col]
}

func (t *Table) Set(i int, col string, c Cell) {
	if t.Rows[i] == nil {
		t.Rows[i] = Row{}
	}
	t.Rows[i][col] = c
}

func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// TableFromGrid applies grid[headerRow] as the header. Blank headers become
// "Column N"; repeated headers get ".1", ".2" suffixes so every column stays
// addressable. Rows above the header are dropped, rows below are kept as-is
// (including blank ones, so line numbers keep matching the sheet).
func TableFromGrid(g Grid, headerRow int) *Table {
	if headerRow < 0 || headerRow >= len(g) {
		headerRow = 0
	}
	if len(g) == 0 {
		return &Table{}
	}

	width := 0
	for _, r := range g[headerRow:] {
		if len(r) > width {
			width = len(r)
		}
	}

	hdr := g[headerRow]
	cols := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var v string
		if i < len(hdr) {
			v = strings.TrimSpace(hdr[i].String())
		}
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n, ok := seen[v]; ok {
			seen[v] = n + 1
			v = fmt.Sprintf("%s.%d", v, n+1)
		} else {
			seen[v] = 0
		}
		cols[i] = v
	}

	t := &Table{Columns: cols}
	for _, src := range g[headerRow+1:] {
		row := make(Row, width)
		for c := 0; c < width; c++ {
			if c < len(src) {
				row[cols[c]] = src[c]
			} else {
				row[cols[c]] = Cell{}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
