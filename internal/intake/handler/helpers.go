package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"intake-service/internal/fileio"
	"intake-service/internal/intake/model"
	"intake-service/internal/intake/schema"
	"intake-service/internal/intake/service"
)

// requestError is an input problem reported back with its status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

// headerRow turns the 1-based form value into a grid index; 0, blank or
// garbage mean auto-detect.
func headerRow(s string) int {
	if n := atoi(s, 0); n > 0 {
		return n - 1
	}
	return service.AutoDetect
}

// readUpload reads an optional multipart file field. ok is false when the
// field is absent.
func readUpload(r *http.Request, field string) (g model.Grid, name string, ok bool, err error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, badRequest("%s: %v", field, err)
	}
	defer f.Close()

	g, err = fileio.ReadGrid(f, hdr.Filename)
	if err != nil {
		return nil, hdr.Filename, false, badRequest("%s: %v", field, err)
	}
	return g, hdr.Filename, true, nil
}

// prepare parses the upload form and runs the engine on it.
func prepare(r *http.Request, maxUploadMB, maxScanRows int, schemas schema.Set) (*service.Result, string, error) {
	if err := r.ParseMultipartForm(int64(maxUploadMB) << 20); err != nil {
		return nil, "", badRequest("bad multipart form: %v", err)
	}

	kind, ok := model.ParseKind(strings.TrimSpace(r.FormValue("kind")))
	if !ok {
		return nil, "", badRequest("kind must be one of product, clothing, price_amendment")
	}
	sc, ok := schemas.Schema(kind)
	if !ok {
		return nil, "", badRequest("no schema configured for %s", kind)
	}

	grid, filename, ok, err := readUpload(r, "file")
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", badRequest("missing file")
	}

	var refs service.References
	refGrid, _, ok, err := readUpload(r, "reference")
	if err != nil {
		return nil, "", err
	}
	if ok {
		refs.Codes, refs.Barcodes, err = service.ExtractReferences(refGrid, schemas.Reference(kind))
		if err != nil {
			return nil, "", badRequest("reference: %v", err)
		}
	} else if kind == model.KindPriceAmendment {
		return nil, "", badRequest("price amendments need a reference list of existing products")
	}

	supGrid, _, ok, err := readUpload(r, "suppliers")
	if err != nil {
		return nil, "", err
	}
	if ok {
		cols, err := service.ExtractColumns(supGrid, schemas.Suppliers())
		if err != nil {
			return nil, "", badRequest("suppliers: %v", err)
		}
		refs.Suppliers = service.NewRefSet(cols[model.FieldSupplierCode])
	}

	res, err := service.Run(service.Input{
		Kind:        kind,
		Grid:        grid,
		HeaderRow:   headerRow(r.FormValue("header_row")),
		Schema:      sc,
		Rules:       schemas.Rules(),
		References:  refs,
		MaxScanRows: maxScanRows,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyGrid) {
			return nil, "", &requestError{status: http.StatusUnprocessableEntity, msg: "file has no rows"}
		}
		return nil, "", badRequest("%v", err)
	}
	return res, filename, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w http.ResponseWriter, log *zerolog.Logger, err error) {
	var re *requestError
	if errors.As(err, &re) {
		log.Warn().Int("status", re.status).Str("reason", re.msg).Msg("rejected")
		_ = writeJSON(w, re.status, map[string]string{"error": re.msg})
		return
	}
	log.Error().Err(err).Msg("internal")
	_ = writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
}
