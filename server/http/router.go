package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"intake-service/internal/config"
	intakeHnd "intake-service/internal/intake/handler"
	"intake-service/internal/intake/schema"
	"intake-service/internal/middleware"
	"intake-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, schemas schema.Set) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/validate", intakeHnd.Validate(cfg, schemas))
		r.Post("/fix", intakeHnd.Fix(cfg, schemas))
	})

	return r
}
