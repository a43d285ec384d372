package service

import (
	"fmt"
	"strings"

	"intake-service/internal/intake/model"
)

// RefSet is a reference list (existing codes, barcodes, supplier codes)
// normalized once and indexed for O(1) membership. Repeated values keep the
// index of their first occurrence.
type RefSet struct {
	index map[string]int
	near  *nearIndex
}

func NewRefSet(values []string) RefSet {
	idx := make(map[string]int, len(values))
	near := &nearIndex{}
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := idx[v]; !ok {
			idx[v] = i
			near.values = append(near.values, v)
		}
	}
	return RefSet{index: idx, near: near}
}

// Provided is false for the zero RefSet, i.e. no list was supplied.
func (r RefSet) Provided() bool { return r.index != nil }
func (r RefSet) Len() int       { return len(r.index) }

// Lookup returns the 0-based position of the first occurrence of v.
func (r RefSet) Lookup(v string) (int, bool) {
	i, ok := r.index[strings.TrimSpace(v)]
	return i, ok
}

// Closest suggests the most similar known value for one that is missing.
func (r RefSet) Closest(v string) (string, bool) { return r.near.closest(v) }

func norm(r model.Record, attr model.Attr) string { return strings.TrimSpace(attr(r)) }

// ExternalDuplicates reports records whose attribute is already present in
// ref. The reference row is the first match, as a sheet line.
func ExternalDuplicates(recs []model.Record, attr model.Attr, ref RefSet) []string {
	var errs []string
	for _, r := range recs {
		v := norm(r, attr)
		if v == "" {
			continue
		}
		if pos, ok := ref.Lookup(v); ok {
			errs = append(errs, fmt.Sprintf("Line %d | %s is already in the system (reference line %d)",
				r.Line(), v, model.Line(pos)))
		}
	}
	return errs
}

// InternalDuplicates reports each value that occurs more than once in the
// batch, once, with its count and every line. Empty values are not counted.
func InternalDuplicates(recs []model.Record, attr model.Attr) []string {
	lines := make(map[string][]int)
	var order []string
	for _, r := range recs {
		v := norm(r, attr)
		if v == "" {
			continue
		}
		if _, ok := lines[v]; !ok {
			order = append(order, v)
		}
		lines[v] = append(lines[v], r.Line())
	}
	var errs []string
	for _, v := range order {
		if ls := lines[v]; len(ls) > 1 {
			errs = append(errs, fmt.Sprintf("Code: %s appears %d times on lines %s", v, len(ls), joinInts(ls)))
		}
	}
	return errs
}

// CompositeDuplicates checks clothing uniqueness over (style, size, colour);
// the first occurrence is kept, every later one is reported.
func CompositeDuplicates(recs []model.Record) []string {
	type key struct{ style, size, colour string }
	seen := make(map[key]bool)
	var errs []string
	for _, r := range recs {
		c, ok := r.(*model.Clothing)
		if !ok {
			continue
		}
		k := key{strings.TrimSpace(c.StyleCode), strings.TrimSpace(c.Size), strings.TrimSpace(c.Colour)}
		if seen[k] {
			errs = append(errs, fmt.Sprintf("Duplicate Style %s with size %s and colour %s on line %d",
				k.style, k.size, k.colour, c.Line()))
			continue
		}
		seen[k] = true
	}
	return errs
}

// SharedBarcodes reports every non-empty barcode carried by more than one
// record, listing each (code, line) pair that shares it.
func SharedBarcodes(recs []model.Record, key model.Attr) []string {
	type holder struct {
		code string
		line int
	}
	groups := make(map[string][]holder)
	var order []string
	for _, r := range recs {
		b := norm(r, model.AttrBarcode)
		if b == "" {
			continue
		}
		if _, ok := groups[b]; !ok {
			order = append(order, b)
		}
		groups[b] = append(groups[b], holder{norm(r, key), r.Line()})
	}
	var errs []string
	for _, b := range order {
		hs := groups[b]
		if len(hs) < 2 {
			continue
		}
		parts := make([]string, len(hs))
		for i, h := range hs {
			parts[i] = fmt.Sprintf("%s (line %d)", h.code, h.line)
		}
		errs = append(errs, fmt.Sprintf("Barcode %s is shared by: %s", b, strings.Join(parts, ", ")))
	}
	return errs
}

// Collisions reports records whose attribute (submitted as one field type)
// is registered in ref under another field type. Run it once per direction.
func Collisions(recs []model.Record, attr model.Attr, submitted string, ref RefSet, registered string) []string {
	var errs []string
	for _, r := range recs {
		v := norm(r, attr)
		if v == "" {
			continue
		}
		if pos, ok := ref.Lookup(v); ok {
			errs = append(errs, fmt.Sprintf("Line %d | %s %s is already registered as a %s (reference line %d)",
				r.Line(), submitted, v, registered, model.Line(pos)))
		}
	}
	return errs
}

// Existence reports records whose attribute is absent from ref; amendments
// and supplier links need the value to exist already. Empty values are
// absent too.
func Existence(recs []model.Record, attr model.Attr, ref RefSet, what string) []string {
	var errs []string
	for _, r := range recs {
		v := norm(r, attr)
		if _, ok := ref.Lookup(v); ok {
			continue
		}
		msg := fmt.Sprintf("Line %d | %s: %s %q does not exist in the system", r.Line(), r, what, v)
		if near, ok := ref.Closest(v); ok {
			msg += fmt.Sprintf(" (closest match: %s)", near)
		}
		errs = append(errs, msg)
	}
	return errs
}

// CodeLength reports codes longer than max characters.
func CodeLength(recs []model.Record, attr model.Attr, label string, max int) []string {
	var errs []string
	for _, r := range recs {
		v := norm(r, attr)
		if n := len([]rune(v)); n > max {
			errs = append(errs, fmt.Sprintf("Line %d | %s has %s length of %d. Must be %d or fewer.",
				r.Line(), v, label, n, max))
		}
	}
	return errs
}

// UnusableCharacters reports records that still hold a bad character in any
// text field, naming the fields.
func UnusableCharacters(recs []model.Record, bad string) []string {
	if bad == "" {
		return nil
	}
	var errs []string
	for _, r := range recs {
		var fields []string
		for _, f := range r.TextFields() {
			if strings.ContainsAny(f.Value, bad) {
				fields = append(fields, f.Field)
			}
		}
		if len(fields) > 0 {
			errs = append(errs, fmt.Sprintf("Line %d | %s contains invalid character(s) in %s",
				r.Line(), r.Code(), strings.Join(fields, ", ")))
		}
	}
	return errs
}

// WithValue keeps records whose attribute is not empty.
func WithValue(recs []model.Record, attr model.Attr) []model.Record {
	var out []model.Record
	for _, r := range recs {
		if norm(r, attr) != "" {
			out = append(out, r)
		}
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
