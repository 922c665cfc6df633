// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/admatch/internal/api"
	"github.com/tomtom215/admatch/internal/config"
	"github.com/tomtom215/admatch/internal/logging"
	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/strategy"
	"github.com/tomtom215/admatch/internal/supervisor"
	"github.com/tomtom215/admatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load .env file")
	}

	configPath := config.ConfigFile()
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.SetAppInfo(version)
	logging.Info().
		Str("version", version).
		Str("config_file", configPath).
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("Starting AdMatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := InitEvents(ctx, &cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize decision events")
	}

	var observers []strategy.Observer
	if events != nil {
		observers = append(observers, events.Emitter)
	}

	dc, err := InitDecision(ctx, cfg, observers...)
	if err != nil {
		events.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize decision pipeline")
	}

	if n, err := dc.Catalog.Refresh(ctx); err != nil {
		// Not fatal: the warmer and read-through cache retry.
		logging.Warn().Err(err).Msg("Initial catalog load failed")
	} else {
		logging.Info().Int("items", n).Msg("Catalog loaded")
	}

	// === HTTP ===

	handlerOpts := []api.HandlerOption{
		api.WithStrategySettings(dc.Gate.Settings()),
		api.WithMaxBodyBytes(cfg.API.MaxBodyBytes),
	}
	checks := dc.Checks
	if events != nil {
		checks = append(checks, api.ReadinessCheck{Name: "events", Check: events.Healthy})
	}
	handlerOpts = append(handlerOpts, api.WithReadinessChecks(checks...))
	if dc.DecisionLog != nil {
		handlerOpts = append(handlerOpts, api.WithDecisionLog(dc.DecisionLog))
	}
	handler := api.NewHandler(dc.Gate, dc.Engine, dc.Catalog, handlerOpts...)

	routerCfg := api.DefaultRouterConfig()
	routerCfg.CORSAllowedOrigins = cfg.API.CORSOrigins
	routerCfg.RateLimitRequests = cfg.API.RateLimitReqs
	routerCfg.RateLimitWindow = cfg.API.RateLimitWindow
	routerCfg.RateLimitDisabled = cfg.API.RateLimitDisabled

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	if cfg.Catalog.WarmInterval > 0 {
		tree.AddDataService(services.NewTickerService("catalog-warmer", cfg.Catalog.WarmInterval, false,
			func(ctx context.Context) error {
				_, err := dc.Catalog.Refresh(ctx)
				return err
			}, logging.Logger()))
	}
	if dc.DecisionLog != nil {
		tree.AddDataService(services.NewRunnerService("decision-log-cleanup", dc.DecisionLog.RunCleanup))
	}

	// Messaging layer
	if configPath != "" {
		tree.AddMessagingService(services.NewWatcherService("strategy-watcher", configPath,
			config.WatchConfigFile, reloadStrategy(configPath, dc.Gate.Settings()), logging.Logger()))
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === RUN ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Events first so the emitter drains while the stores are still open.
	events.Close()
	dc.Close()

	logging.Info().Msg("Application stopped gracefully")
}
