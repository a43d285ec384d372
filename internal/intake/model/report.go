package model

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Diagnostic is a header-resolution or construction message.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Column   string   `json:"column,omitempty"`
	Alias    string   `json:"alias,omitempty"`
	Score    float64  `json:"score,omitempty"`
	Message  string   `json:"message"`
}

// Change is one auto-fix applied to one cell.
type Change struct {
	Line    int    `json:"line"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (c Change) String() string { return fmt.Sprintf("Line %d | %s", c.Line, c.Message) }

type ChangeGroup struct {
	Category string   `json:"category"`
	Changes  []Change `json:"changes"`
}

// ChangeLog keeps fix categories in the order the passes ran.
type ChangeLog []ChangeGroup

func (l *ChangeLog) Add(category string, changes []Change) {
	for i := range *l {
		if (*l)[i].Category == category {
			(*l)[i].Changes = append((*l)[i].Changes, changes...)
			return
		}
	}
	if changes == nil {
		changes = []Change{}
	}
	*l = append(*l, ChangeGroup{Category: category, Changes: changes})
}

func (l ChangeLog) Get(category string) []Change {
	for _, g := range l {
		if g.Category == category {
			return g.Changes
		}
	}
	return nil
}

func (l ChangeLog) Total() int {
	n := 0
	for _, g := range l {
		n += len(g.Changes)
	}
	return n
}

// MissingFieldsError is returned by the record builder when a required
// field has no resolved column.
type MissingFieldsError struct {
	Kind   Kind
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): %s", e.Kind, strings.Join(e.Fields, ", "))
}

// CheckResult is one validator's outcome. Errors empty means passed.
type CheckResult struct {
	Check  string   `json:"check"`
	Title  string   `json:"title"`
	Passed string   `json:"passed,omitempty"`
	Errors []string `json:"errors"`
}

func (c CheckResult) OK() bool { return len(c.Errors) == 0 }

// Report is everything a caller needs to render one run.
type Report struct {
	Kind         Kind          `json:"kind"`
	HeaderRow    int           `json:"headerRow"`
	Columns      []string      `json:"columns"`
	Assignment   Assignment    `json:"assignment"`
	Diagnostics  []Diagnostic  `json:"diagnostics"`
	Missing      []string      `json:"missing"`
	Unrecognized []string      `json:"unrecognized"`
	Changes      ChangeLog     `json:"changes"`
	Records      int           `json:"records"`
	Checks       []CheckResult `json:"checks"`
	Blocked      bool          `json:"blocked"`
	Ready        bool          `json:"ready"`
}

func (r *Report) ErrorCount() int {
	n := 0
	for _, c := range r.Checks {
		n += len(c.Errors)
	}
	return n
}
