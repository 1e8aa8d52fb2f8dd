// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/wellnessrec/internal/api"
	"github.com/tomtom215/wellnessrec/internal/config"
	"github.com/tomtom215/wellnessrec/internal/logging"
	"github.com/tomtom215/wellnessrec/internal/middleware"
	"github.com/tomtom215/wellnessrec/internal/supervisor"
	"github.com/tomtom215/wellnessrec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("storage", cfg.Storage.Enabled).
		Str("catalog", cfg.Catalog.Path).
		Msg("Starting WellnessRec with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := initRecommend(ctx, cfg, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := components.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 30*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer services
	if cfg.Recommend.RefreshInterval > 0 {
		tree.AddDataService(services.NewRefreshService(components.Engine, cfg.Recommend.RefreshInterval, logging.Logger()))
	}
	if components.Store != nil {
		tree.AddDataService(services.NewSnapshotService(
			components.Engine,
			components.Store,
			cfg.Storage.SnapshotInterval,
			cfg.Storage.GCDiscardRatio,
			logging.Logger(),
		))
	}

	// API layer services
	server := newHTTPServer(cfg, components)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	if path := config.FindConfigFile(); path != "" {
		reloadLogger := logging.WithComponent("config")
		if err := config.WatchConfigFile(path, func() {
			if err := reloadEngineConfig(components.Engine, config.Load, reloadLogger); err != nil {
				reloadLogger.Warn().Err(err).Str("path", path).Msg("Config reload rejected")
			}
		}); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watching disabled")
		} else {
			logging.Info().Str("path", path).Msg("Watching config file for changes")
		}
	}

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		stop()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newHTTPServer assembles the router and the server around the engine.
func newHTTPServer(cfg *config.Config, components *RecommendComponents) *http.Server {
	perfMon := middleware.NewPerformanceMonitor(1000, cfg.Recommend.SlowRequestThreshold)

	chiCfg := api.DefaultChiMiddlewareConfig()
	chiCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	chiCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	chiCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	chiCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled

	handler := api.NewHandler(components.Engine, perfMon, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(chiCfg), perfMon)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
