package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intake-service/internal/config"
	"intake-service/internal/intake/schema"
	serverhttp "intake-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	schemas := schema.Defaults()
	if cfg.SchemaFile != "" {
		s, err := schema.LoadFile(cfg.SchemaFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.SchemaFile).Msg("schema")
		}
		schemas = s
		logger.Info().Str("file", cfg.SchemaFile).Msg("schema overlay loaded")
	}

	r := serverhttp.NewRouter(cfg, logger, schemas)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
