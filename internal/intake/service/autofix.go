package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"intake-service/internal/intake/model"
)

// fix categories, in the order the pipelines run them
const (
	FixDescription = "Description Fixes"
	FixBadChars    = "Bad Char Fixes"
	FixDecimals    = "Decimal Fixes"
	FixVAT         = "VAT Fixes"
	FixColour      = "Color Fixes"
)

// Fix is one auto-fix pass. Apply mutates t and returns one Change per
// modified cell. Passes never fail: missing columns and cells of the wrong
// kind are skipped.
type Fix struct {
	Category string
	Apply    func(t *model.Table, a model.Assignment) []model.Change
}

// Pipeline returns the fixed pass order for kind. Order matters: the
// description is measured before characters are stripped from it.
func Pipeline(kind model.Kind, r model.Rules) []Fix {
	switch kind {
	case model.KindProduct:
		return []Fix{
			TruncateDescription(r.DescriptionMax),
			StripBadChars(r.BadChars),
			RoundMoney(2),
			RemapVAT(r.VATCodes),
		}
	case model.KindClothing:
		return []Fix{
			TruncateDescription(r.DescriptionMax),
			StripBadChars(r.BadChars),
			RoundMoney(2),
			RemapVAT(r.VATCodes),
			ShortenColour(r.BadChars, r.ColourMax),
		}
	case model.KindPriceAmendment:
		return []Fix{
			StripBadChars(r.BadChars),
			RoundMoney(2),
		}
	}
	return nil
}

// ApplyFixes runs fixes in order over a copy of t; the input is untouched.
// Every category appears in the log, empty when the pass changed nothing.
func ApplyFixes(t *model.Table, a model.Assignment, fixes []Fix) (*model.Table, model.ChangeLog) {
	out := t.Clone()
	log := model.ChangeLog{}
	for _, f := range fixes {
		log.Add(f.Category, f.Apply(out, a))
	}
	return out, log
}

func truncateRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

func stripChars(s, bad string) string {
	if bad == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(bad, r) {
			return -1
		}
		return r
	}, s)
}

// TruncateDescription cuts description text longer than max runes.
func TruncateDescription(max int) Fix {
	return Fix{Category: FixDescription, Apply: func(t *model.Table, a model.Assignment) []model.Change {
		col, ok := a.Column(model.FieldDescription)
		if !ok || !t.HasColumn(col) {
			return nil
		}
		var changes []model.Change
		for i := range t.Rows {
			c := t.Cell(i, col)
			if c.Kind != model.CellText {
				continue
			}
			short, cut := truncateRunes(c.Text, max)
			if !cut {
				continue
			}
			t.Set(i, col, model.Text(short))
			changes = append(changes, model.Change{
				Line:    model.Line(i),
				Column:  col,
				Message: fmt.Sprintf("Long description: '%s' shortened to '%s'", c.Text, short),
			})
		}
		return changes
	}}
}

// StripBadChars removes bad from every text cell of every column.
// Running it twice changes nothing the second time.
func StripBadChars(bad string) Fix {
	return Fix{Category: FixBadChars, Apply: func(t *model.Table, _ model.Assignment) []model.Change {
		if bad == "" {
			return nil
		}
		var changes []model.Change
		for _, col := range t.Columns {
			for i := range t.Rows {
				c := t.Cell(i, col)
				if c.Kind != model.CellText {
					continue
				}
				cleaned := stripChars(c.Text, bad)
				if cleaned == c.Text {
					continue
				}
				t.Set(i, col, model.Text(cleaned))
				changes = append(changes, model.Change{
					Line:    model.Line(i),
					Column:  col,
					Message: fmt.Sprintf("Bad characters removed from column '%s'", col),
				})
			}
		}
		return changes
	}}
}

// RoundMoney rounds number cells of the money columns that carry more than
// places fractional digits. Rounding is half away from zero on the shortest
// decimal spelling of the value: 12.345 -> 12.35, -0.125 -> -0.13.
func RoundMoney(places int32) Fix {
	return Fix{Category: FixDecimals, Apply: func(t *model.Table, a model.Assignment) []model.Change {
		var changes []model.Change
		for _, key := range model.MoneyFields {
			col, ok := a.Column(key)
			if !ok || !t.HasColumn(col) {
				continue
			}
			for i := range t.Rows {
				c := t.Cell(i, col)
				if c.Kind != model.CellNumber || math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
					continue
				}
				d := decimal.NewFromFloat(c.Num)
				if d.Exponent() >= -places {
					continue
				}
				r := d.Round(places)
				t.Set(i, col, model.NumberRaw(r.InexactFloat64(), r.StringFixed(places)))
				changes = append(changes, model.Change{
					Line:    model.Line(i),
					Column:  col,
					Message: fmt.Sprintf("%s of %s rounded to %s", col, d.String(), r.StringFixed(places)),
				})
			}
		}
		return changes
	}}
}

// RemapVAT replaces VAT percentages found in codes with their code.
// Values not in the table are left alone.
func RemapVAT(codes map[float64]int) Fix {
	return Fix{Category: FixVAT, Apply: func(t *model.Table, a model.Assignment) []model.Change {
		col, ok := a.Column(model.FieldVATRate)
		if !ok || !t.HasColumn(col) || len(codes) == 0 {
			return nil
		}
		var changes []model.Change
		for i := range t.Rows {
			c := t.Cell(i, col)
			if c.Kind != model.CellNumber {
				continue
			}
			code, ok := codes[c.Num]
			if !ok || float64(code) == c.Num {
				continue
			}
			t.Set(i, col, model.Number(float64(code)))
			changes = append(changes, model.Change{
				Line:    model.Line(i),
				Column:  col,
				Message: fmt.Sprintf("VAT Rate %s updated to code %d", c.String(), code),
			})
		}
		return changes
	}}
}

// ShortenColour strips bad characters from colour text, then cuts it to max
// runes. Both changes can be logged for the same cell.
func ShortenColour(bad string, max int) Fix {
	return Fix{Category: FixColour, Apply: func(t *model.Table, a model.Assignment) []model.Change {
		col, ok := a.Column(model.FieldColour)
		if !ok || !t.HasColumn(col) {
			return nil
		}
		var changes []model.Change
		for i := range t.Rows {
			c := t.Cell(i, col)
			if c.Kind != model.CellText {
				continue
			}
			cleaned := stripChars(c.Text, bad)
			if cleaned != c.Text {
				changes = append(changes, model.Change{
					Line:    model.Line(i),
					Column:  col,
					Message: fmt.Sprintf("Bad characters removed from color description: '%s', updated to '%s'", c.Text, cleaned),
				})
			}
			final, cut := truncateRunes(cleaned, max)
			if cut {
				changes = append(changes, model.Change{
					Line:    model.Line(i),
					Column:  col,
					Message: fmt.Sprintf("Long color description: '%s' shortened to '%s'", c.Text, final),
				})
			}
			if final != c.Text {
				t.Set(i, col, model.Text(final))
			}
		}
		return changes
	}}
}
