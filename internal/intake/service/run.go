package service

import (
	"errors"

	"github.com/rotisserie/eris"

	"intake-service/internal/intake/model"
)

var (
	ErrEmptyGrid   = eris.New("grid has no rows")
	ErrUnknownKind = eris.New("unknown record kind")
)

// AutoDetect as Input.HeaderRow asks Run to locate the header row.
const AutoDetect = -1

type Input struct {
	Kind        model.Kind
	Grid        model.Grid
	HeaderRow   int
	Schema      model.Schema
	Rules       model.Rules
	References  References
	MaxScanRows int
}

type Result struct {
	Report  model.Report
	Table   *model.Table
	Records []model.Record
}

// Run takes one upload through the whole engine: header row, resolution,
// auto-fixes, record construction and the checks. A missing required column
// is not an error: the report comes back Blocked with the checks skipped.
func Run(in Input) (*Result, error) {
	switch in.Kind {
	case model.KindProduct, model.KindClothing, model.KindPriceAmendment:
	default:
		return nil, eris.Wrapf(ErrUnknownKind, "kind %q", in.Kind)
	}
	if len(in.Grid) == 0 {
		return nil, ErrEmptyGrid
	}

	hr := in.HeaderRow
	if hr < 0 {
		hr = DetectHeaderRow(in.Grid, in.Schema.Aliases(), in.MaxScanRows)
	}
	if hr >= len(in.Grid) {
		return nil, eris.Errorf("header row %d is past the last row %d", hr+1, len(in.Grid))
	}

	t := model.TableFromGrid(in.Grid, hr)
	rep := model.Report{Kind: in.Kind, HeaderRow: hr, Columns: t.Columns}
	rep.Missing, rep.Unrecognized = Coverage(t.Columns, in.Schema)
	rep.Assignment, rep.Diagnostics = Resolve(t.Columns, in.Schema)

	fixed, changes := ApplyFixes(t, rep.Assignment, Pipeline(in.Kind, in.Rules))
	rep.Changes = changes

	res := &Result{Table: fixed}
	recs, err := BuildRecords(in.Kind, fixed, rep.Assignment, in.Schema.Required)
	var missing *model.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		rep.Blocked = true
		rep.Diagnostics = append(rep.Diagnostics, model.Diagnostic{
			Severity: model.SeverityError,
			Message:  missing.Error(),
		})
		res.Report = rep
		return res, nil
	case err != nil:
		return nil, err
	}

	rep.Records = len(recs)
	rep.Checks = Validate(in.Kind, recs, in.References, in.Rules)
	rep.Ready = rep.ErrorCount() == 0
	res.Report = rep
	res.Records = recs
	return res, nil
}
