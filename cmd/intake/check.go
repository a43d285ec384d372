package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"intake-service/internal/fileio"
	"intake-service/internal/intake/model"
	"intake-service/internal/intake/schema"
	"intake-service/internal/intake/service"
)

// ErrNotReady is returned when at least one checked file has errors, so the
// process exits non-zero.
var ErrNotReady = eris.New("not ready for upload")

type checkOptions struct {
	kind        string
	reference   string
	suppliers   string
	headerRow   int
	fixDir      string
	format      string
	concurrency int
	maxScanRows int
}

func newCheckCmd(a *app) *cobra.Command {
	var o checkOptions
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Resolve headers, apply auto-fixes and run the checks on each file",
		Long: `Runs every FILE through the same engine as POST /validate and prints one
report per file, in argument order. Files are checked concurrently.

Examples:
  intake check --kind product new_lines.xlsx
  intake check --kind clothing --reference active.xlsx --suppliers suppliers.csv autumn.xlsx
  intake check --kind price_amendment --reference active.xlsx --fix-dir out/ prices.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), a, o, args, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.kind, "kind", "k", string(model.KindProduct), "product, clothing or price_amendment")
	f.StringVarP(&o.reference, "reference", "r", "", "existing items export (codes and barcodes)")
	f.StringVarP(&o.suppliers, "suppliers", "s", "", "supplier list")
	f.IntVar(&o.headerRow, "header-row", 0, "1-based header row; 0 detects it")
	f.StringVar(&o.fixDir, "fix-dir", "", "write <name>_fixed.xlsx copies here")
	f.StringVarP(&o.format, "format", "f", "text", "text or json")
	f.IntVarP(&o.concurrency, "concurrency", "c", 4, "files checked at once")
	f.IntVar(&o.maxScanRows, "max-scan-rows", service.DefaultMaxScanRows, "rows searched for the header")
	return cmd
}

type fileResult struct {
	Path   string        `json:"file"`
	Report *model.Report `json:"report,omitempty"`
	Fixed  string        `json:"fixed,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (r fileResult) ready() bool { return r.Error == "" && r.Report != nil && r.Report.Ready }

func runCheck(ctx context.Context, a *app, o checkOptions, paths []string, out io.Writer) error {
	kind, ok := model.ParseKind(o.kind)
	if !ok {
		return eris.Errorf("unknown kind %q", o.kind)
	}
	sc, ok := a.schemas.Schema(kind)
	if !ok {
		return eris.Errorf("no schema configured for %s", kind)
	}
	if o.format != "text" && o.format != "json" {
		return eris.Errorf("unknown format %q", o.format)
	}
	refs, err := loadReferences(a.schemas, kind, o)
	if err != nil {
		return err
	}
	if o.fixDir != "" {
		if err := os.MkdirAll(o.fixDir, 0o755); err != nil {
			return eris.Wrap(err, "fix dir")
		}
	}

	in := service.Input{
		Kind:        kind,
		HeaderRow:   service.AutoDetect,
		Schema:      sc,
		Rules:       a.schemas.Rules(),
		References:  refs,
		MaxScanRows: o.maxScanRows,
	}
	if o.headerRow > 0 {
		in.HeaderRow = o.headerRow - 1
	}

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.concurrency, 1))
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(a, in, p, o.fixDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if o.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return eris.Wrap(err, "encode")
		}
	} else {
		for _, r := range results {
			printResult(out, r)
		}
	}

	failed := 0
	for _, r := range results {
		if !r.ready() {
			failed++
		}
	}
	if failed > 0 {
		return eris.Wrapf(ErrNotReady, "%d of %d file(s)", failed, len(paths))
	}
	return nil
}

func loadReferences(schemas schema.Set, kind model.Kind, o checkOptions) (service.References, error) {
	var refs service.References
	if o.reference != "" {
		g, err := fileio.ReadFile(o.reference)
		if err != nil {
			return refs, eris.Wrap(err, "reference")
		}
		refs.Codes, refs.Barcodes, err = service.ExtractReferences(g, schemas.Reference(kind))
		if err != nil {
			return refs, eris.Wrap(err, "reference")
		}
	} else if kind == model.KindPriceAmendment {
		return refs, eris.New("price amendments need --reference with the existing products")
	}

	if o.suppliers != "" {
		g, err := fileio.ReadFile(o.suppliers)
		if err != nil {
			return refs, eris.Wrap(err, "suppliers")
		}
		cols, err := service.ExtractColumns(g, schemas.Suppliers())
		if err != nil {
			return refs, eris.Wrap(err, "suppliers")
		}
		refs.Suppliers = service.NewRefSet(cols[model.FieldSupplierCode])
	}
	return refs, nil
}

// checkFile never fails the batch: read and run errors land in the result.
func checkFile(a *app, in service.Input, path, fixDir string) fileResult {
	out := fileResult{Path: path}
	g, err := fileio.ReadFile(path)
	if err != nil {
		out.Error = err.Error()
		a.logger.Warn().Err(err).Str("file", path).Msg("read failed")
		return out
	}
	in.Grid = g

	res, err := service.Run(in)
	if err != nil {
		out.Error = err.Error()
		a.logger.Warn().Err(err).Str("file", path).Msg("run failed")
		return out
	}
	out.Report = &res.Report
	a.logger.Debug().
		Str("file", path).
		Int("header_row", res.Report.HeaderRow+1).
		Int("records", res.Report.Records).
		Int("changes", res.Report.Changes.Total()).
		Int("errors", res.Report.ErrorCount()).
		Msg("checked")

	if fixDir != "" {
		dst := filepath.Join(fixDir, fileio.FixedName(path))
		if err := writeFixed(dst, res.Table); err != nil {
			out.Error = err.Error()
			return out
		}
		out.Fixed = dst
	}
	return out
}

func writeFixed(dst string, t *model.Table) error {
	f, err := os.Create(dst)
	if err != nil {
		return eris.Wrap(err, "create")
	}
	if err := fileio.WriteXLSX(f, t, "Fixed"); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "write %s", dst)
	}
	return f.Close()
}

func printResult(w io.Writer, r fileResult) {
	if r.Error != "" {
		fmt.Fprintf(w, "%s: error: %s\n\n", r.Path, r.Error)
		return
	}
	rep := r.Report
	status := "ready"
	switch {
	case rep.Blocked:
		status = "blocked"
	case !rep.Ready:
		status = "not ready"
	}
	fmt.Fprintf(w, "%s: %s, header row %d, %d record(s), %d change(s), %d error(s): %s\n",
		r.Path, rep.Kind, rep.HeaderRow+1, rep.Records, rep.Changes.Total(), rep.ErrorCount(), status)

	for _, d := range rep.Diagnostics {
		fmt.Fprintf(w, "  [%s] %s\n", d.Severity, d.Message)
	}
	for _, g := range rep.Changes {
		for _, c := range g.Changes {
			fmt.Fprintf(w, "  [fix] %s: %s\n", g.Category, c)
		}
	}
	for _, c := range rep.Checks {
		if c.OK() {
			fmt.Fprintf(w, "  [ok] %s\n", c.Passed)
			continue
		}
		fmt.Fprintf(w, "  [fail] %s (%d)\n", c.Title, len(c.Errors))
		for _, e := range c.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}
	if r.Fixed != "" {
		fmt.Fprintf(w, "  fixed copy: %s\n", r.Fixed)
	}
	fmt.Fprintln(w)
}
