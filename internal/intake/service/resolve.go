package service

import (
	"fmt"

	"intake-service/internal/intake/model"
)

// ColumnSet is the used-columns accumulator threaded through ResolveField.
// A column in the set can never be assigned again.
type ColumnSet map[string]struct{}

func (s ColumnSet) Has(col string) bool { _, ok := s[col]; return ok }
func (s ColumnSet) Add(col string)      { s[col] = struct{}{} }

// Resolve maps every schema field to at most one actual header.
//
// Exact matches are taken for all fields first. The fuzzy fallback then runs
// greedily in schema order over the columns left, so a column taken by an
// earlier field is never handed to a later one, even when the later field
// would have matched it better. Reorder the schema to change the winner.
func Resolve(headers []string, sc model.Schema) (model.Assignment, []model.Diagnostic) {
	norm := normalizeAll(headers)
	used := ColumnSet{}
	out := make(model.Assignment, len(sc.Fields))
	for _, f := range sc.Fields {
		if col, ok := exactMatch(headers, norm, f, used); ok {
			out[f.Key] = col
		}
	}

	var diags []model.Diagnostic
	for _, f := range sc.Fields {
		if _, ok := out[f.Key]; ok {
			continue
		}
		col, d, ok := fuzzyMatch(headers, norm, f, used)
		if ok {
			out[f.Key] = col
		}
		diags = append(diags, d)
	}
	return out, diags
}

// ResolveField resolves one field against headers, skipping and extending
// used. It returns an info diagnostic for a fuzzy hit and an error
// diagnostic when nothing scores at least MatchThreshold.
func ResolveField(headers []string, f model.Field, used ColumnSet) (string, *model.Diagnostic, bool) {
	norm := normalizeAll(headers)
	if col, ok := exactMatch(headers, norm, f, used); ok {
		return col, nil, true
	}
	col, d, ok := fuzzyMatch(headers, norm, f, used)
	return col, &d, ok
}

func normalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// exactMatch tries aliases in listed order against the normalized headers.
func exactMatch(headers, norm []string, f model.Field, used ColumnSet) (string, bool) {
	for _, alias := range f.Aliases {
		na := NormalizeHeader(alias)
		for i, h := range headers {
			if norm[i] == na && !used.Has(h) {
				used.Add(h)
				return h, true
			}
		}
	}
	return "", false
}

// fuzzyMatch takes the single best (header, alias) pair over unused headers.
func fuzzyMatch(headers, norm []string, f model.Field, used ColumnSet) (string, model.Diagnostic, bool) {
	best := 0.0
	bestHeader, bestAlias := "", ""
	for i, h := range headers {
		if used.Has(h) {
			continue
		}
		for _, alias := range f.Aliases {
			if s := CharMatch(alias, norm[i]); s > best {
				best, bestHeader, bestAlias = s, h, alias
			}
		}
	}
	if bestHeader != "" && best >= MatchThreshold {
		used.Add(bestHeader)
		return bestHeader, model.Diagnostic{
			Severity: model.SeverityInfo,
			Field:    f.Key,
			Column:   bestHeader,
			Alias:    bestAlias,
			Score:    best,
			Message:  fmt.Sprintf("header %q auto-corrected to %q", bestHeader, bestAlias),
		}, true
	}

	alias := f.Key
	if len(f.Aliases) > 0 {
		alias = f.Aliases[0]
	}
	return "", model.Diagnostic{
		Severity: model.SeverityError,
		Field:    f.Key,
		Alias:    alias,
		Score:    best,
		Message:  fmt.Sprintf("no column found for %s (looked for %q)", f.Key, alias),
	}, false
}

// Coverage lists schema fields with no exact alias among headers, and
// headers that equal no alias of any field. Fuzzy hits show up in both.
func Coverage(headers []string, sc model.Schema) (missing, unrecognized []string) {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[NormalizeHeader(h)] = true
	}
	known := make(map[string]bool)
	for _, f := range sc.Fields {
		found := false
		for _, a := range f.Aliases {
			na := NormalizeHeader(a)
			known[na] = true
			if have[na] {
				found = true
			}
		}
		if !found {
			missing = append(missing, f.Key)
		}
	}
	for _, h := range headers {
		if !known[NormalizeHeader(h)] {
			unrecognized = append(unrecognized, h)
		}
	}
	return missing, unrecognized
}

// RequiredErrors reports error diagnostics that concern required fields.
func RequiredErrors(sc model.Schema, diags []model.Diagnostic) []model.Diagnostic {
	req := make(map[string]bool, len(sc.Required))
	for _, r := range sc.Required {
		req[r] = true
	}
	var out []model.Diagnostic
	for _, d := range diags {
		if d.Severity == model.SeverityError && req[d.Field] {
			out = append(out, d)
		}
	}
	return out
}
