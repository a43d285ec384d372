package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"intake-service/internal/config"
	"intake-service/internal/fileio"
	"intake-service/internal/intake/schema"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Validate runs an upload through resolution, auto-fixes and the checks and
// answers with the report as JSON.
func Validate(cfg config.Config, schemas schema.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())
		defer r.Body.Close()

		res, filename, err := prepare(r, cfg.MaxUploadMB, cfg.MaxScanRows, schemas)
		if err != nil {
			writeError(w, log, err)
			return
		}

		rep := res.Report
		if err := writeJSON(w, http.StatusOK, rep); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Str("kind", string(rep.Kind)).
			Str("file", filename).
			Int("header_row", rep.HeaderRow+1).
			Int("records", rep.Records).
			Int("changes", rep.Changes.Total()).
			Int("errors", rep.ErrorCount()).
			Bool("blocked", rep.Blocked).
			Bool("ready", rep.Ready).
			Dur("elapsed", time.Since(start)).
			Msg("validate done")
	}
}

// Fix runs the same pipeline and returns the auto-fixed sheet as XLSX.
func Fix(cfg config.Config, schemas schema.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())
		defer r.Body.Close()

		res, filename, err := prepare(r, cfg.MaxUploadMB, cfg.MaxScanRows, schemas)
		if err != nil {
			writeError(w, log, err)
			return
		}

		var buf bytes.Buffer
		if err := fileio.WriteXLSX(&buf, res.Table, "Fixed"); err != nil {
			writeError(w, log, err)
			return
		}

		out := fileio.FixedName(filename)
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out))
		w.Header().Set("X-Changes-Total", strconv.Itoa(res.Report.Changes.Total()))
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buf.WriteTo(w); err != nil {
			log.Error().Err(err).Msg("write xlsx")
			return
		}

		log.Info().
			Str("kind", string(res.Report.Kind)).
			Str("file", out).
			Int("changes", res.Report.Changes.Total()).
			Dur("elapsed", time.Since(start)).
			Msg("fix done")
	}
}
