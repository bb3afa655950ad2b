package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pharmagarde/locator/internal/core/config"
	"github.com/pharmagarde/locator/internal/core/httpclient"
	"github.com/pharmagarde/locator/internal/core/observability"
	"github.com/pharmagarde/locator/internal/core/server"
	"github.com/pharmagarde/locator/internal/duty"
	"github.com/pharmagarde/locator/internal/duty/redisstore"
	"github.com/pharmagarde/locator/internal/fusion"
	"github.com/pharmagarde/locator/internal/grid"
	"github.com/pharmagarde/locator/internal/logger"
	"github.com/pharmagarde/locator/internal/places"
	"github.com/pharmagarde/locator/pkg/invalidation/kafka"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "locator",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting locator",
		"addr", cfg.Addr,
		"version", Version,
		"places", cfg.PlacesBaseURL,
		"redis", cfg.RedisAddr,
		"grid_res", cfg.FusionGridRes,
		"invalidation", cfg.Invalidation.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := httpclient.NewOutbound(cfg.PlacesTimeout)
	gateway, err := places.NewClient(appLog, httpClient, cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PlacesMaxResults)
	if err != nil {
		appLog.Error("places client setup failed", "err", err)
		return 1
	}

	store, err := redisstore.New(ctx, cfg.RedisAddr, cfg.DutyRetention)
	if err != nil {
		appLog.Error("duty store setup failed", "err", err, "addr", cfg.RedisAddr)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLog.Error("duty store close", "err", err)
		}
	}()

	quant, err := grid.New(cfg.FusionGridRes)
	if err != nil {
		appLog.Error("grid setup failed", "err", err, "res", cfg.FusionGridRes)
		return 1
	}

	resolver := duty.NewResolver(appLog, store)
	cache, err := fusion.New(appLog, gateway, resolver, quant, cfg.FusionTTL, cfg.FusionLRUSize)
	if err != nil {
		appLog.Error("fusion cache setup failed", "err", err)
		return 1
	}

	deps := server.Deps{Resolver: cache, DutyStore: store}

	if kcfg := kafka.FromEnv(); kcfg.Enabled && kcfg.Driver == kafka.DriverKafka {
		runner := kafka.New(kcfg, cache, kafka.Options{
			Logger:   appLog,
			Register: prometheus.DefaultRegisterer,
		})
		if err := runner.Start(ctx); err != nil {
			appLog.Error("invalidation runner start failed", "err", err)
			return 1
		}
		defer runner.Stop()
		deps.Consumer = runner
	}

	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
