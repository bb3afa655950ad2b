// Package server wires the HTTP surface and runs it until shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmagarde/locator/internal/core/config"
	"github.com/pharmagarde/locator/internal/core/health"
	"github.com/pharmagarde/locator/internal/core/middleware"
	"github.com/pharmagarde/locator/internal/core/router"
)

type Deps struct {
	Resolver  router.Resolver
	DutyStore health.Pinger
	Consumer  health.ConsumerReporter // nil when invalidation is disabled
}

// Run sets up http and starts serving until ctx is canceled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, deps Deps) error {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(deps.DutyStore, deps.Consumer))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/v1/pharmacies/nearby", router.HandleNearby(logger, cfg.PlacesRadiusM, deps.Resolver))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
