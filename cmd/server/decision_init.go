// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/admatch/internal/api"
	"github.com/tomtom215/admatch/internal/catalog"
	"github.com/tomtom215/admatch/internal/config"
	"github.com/tomtom215/admatch/internal/decision"
	"github.com/tomtom215/admatch/internal/decisionlog"
	"github.com/tomtom215/admatch/internal/history"
	"github.com/tomtom215/admatch/internal/logging"
	"github.com/tomtom215/admatch/internal/strategy"
	"github.com/tomtom215/admatch/internal/translate"
)

// DecisionComponents holds everything behind the decision endpoint.
type DecisionComponents struct {
	Catalog     *catalog.Service
	Engine      *decision.Engine
	Gate        *strategy.Gate
	DecisionLog *decisionlog.Logger
	History     history.Store
	Checks      []api.ReadinessCheck

	closers []func() error
}

// Close releases backends in reverse order of creation.
func (c *DecisionComponents) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logging.Warn().Err(err).Msg("Error closing decision component")
		}
	}
}

func (c *DecisionComponents) onClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

// InitDecision builds the catalog, translator, exposure history, v2 engine,
// v1 decider, decision log and strategy gate. Observers are attached to the
// gate in the order given after the built-in history and decision log
// observers.
func InitDecision(ctx context.Context, cfg *config.Config, observers ...strategy.Observer) (*DecisionComponents, error) {
	c := &DecisionComponents{}
	logger := logging.Logger()

	source, err := initCatalogSource(ctx, &cfg.Catalog, c)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Catalog = catalog.NewService(source, catalog.ServiceConfig{
		ItemTTL:       cfg.Catalog.ItemTTL,
		AdvertiserTTL: cfg.Catalog.AdvertiserTTL,
	}, logger)
	c.onClose(func() error { c.Catalog.Close(); return nil })
	c.Checks = append(c.Checks, api.ReadinessCheck{Name: "catalog", Critical: true, Check: c.Catalog.Ping})

	translator := initTranslator(&cfg.Translate, c)

	decisionCfg := decisionConfig(&cfg.Decision)
	c.Engine, err = decision.NewEngine(decisionCfg, translator, c.Catalog, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	legacy := strategy.NewLegacyDecider(c.Catalog, decisionCfg.Ranking)

	settings, err := strategy.NewStore(strategySettings(&cfg.Strategy))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("strategy settings: %w", err)
	}

	var opts []strategy.GateOption
	var gateObservers []strategy.Observer

	if cfg.History.Enabled {
		c.History, err = initHistory(ctx, &cfg.History, c)
		if err != nil {
			c.Close()
			return nil, err
		}
		opts = append(opts, strategy.WithHistory(c.History))
		gateObservers = append(gateObservers, strategy.NewHistoryObserver(c.History, logger))
	}

	if cfg.DecisionLog.Enabled {
		c.DecisionLog, err = initDecisionLog(ctx, &cfg.DecisionLog, c)
		if err != nil {
			c.Close()
			return nil, err
		}
		gateObservers = append(gateObservers, c.DecisionLog)
	}

	gateObservers = append(gateObservers, observers...)
	opts = append(opts, strategy.WithObservers(gateObservers...))
	c.Gate = strategy.NewGate(settings, c.Engine, legacy, logger, opts...)

	logging.Info().
		Str("catalog_source", source.Name()).
		Bool("translation", cfg.Translate.Enabled).
		Bool("history", cfg.History.Enabled).
		Bool("decision_log", cfg.DecisionLog.Enabled).
		Bool("v2_default", cfg.Strategy.V2Default).
		Int("rollout_percent", cfg.Strategy.RolloutPercent).
		Msg("Decision pipeline initialized")
	return c, nil
}

func initCatalogSource(ctx context.Context, cfg *config.CatalogConfig, c *DecisionComponents) (catalog.Source, error) {
	switch cfg.Source {
	case config.CatalogSourceMongo:
		store, err := catalog.NewMongoStore(ctx, catalog.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("catalog mongo: %w", err)
		}
		c.onClose(func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Close(closeCtx)
		})
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("catalog mongo indexes: %w", err)
		}
		return store, nil

	case config.CatalogSourceMemory:
		logging.Warn().Msg("Catalog source is memory: no items will be served until the catalog is seeded")
		return catalog.NewMemorySource(nil, nil), nil

	default:
		src, err := catalog.NewFileSource(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("catalog file: %w", err)
		}
		return src, nil
	}
}

func initTranslator(cfg *config.TranslateConfig, c *DecisionComponents) decision.Translator {
	if !cfg.Enabled {
		return translate.Identity{}
	}
	if cfg.APIKey == "" {
		logging.Warn().Msg("Translation enabled without OPENAI_API_KEY, non-English messages will match untranslated")
		return translate.Identity{}
	}

	t := translate.NewOpenAITranslator(translate.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		Timeout:   cfg.Timeout,
		CacheTTL:  cfg.CacheTTL,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Breaker:   translate.DefaultBreakerConfig(),
	}, logging.Logger())
	c.onClose(func() error { t.Close(); return nil })
	return t
}

func initHistory(ctx context.Context, cfg *config.HistoryConfig, c *DecisionComponents) (history.Store, error) {
	hcfg := history.Config{Window: cfg.Window, TTL: cfg.TTL}

	var store history.Store
	switch cfg.Backend {
	case config.HistoryBackendRedis:
		client, err := history.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = history.NewRedisStore(client, hcfg)
		c.Checks = append(c.Checks, api.ReadinessCheck{Name: "history", Check: redisPing(client)})

	case config.HistoryBackendBadger:
		db, err := history.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		store = history.NewBadgerStore(db, hcfg)

	default:
		store = history.NewMemoryStore(hcfg)
	}

	c.onClose(store.Close)
	logging.Info().Str("backend", cfg.Backend).Int("window", cfg.Window).Dur("ttl", cfg.TTL).Msg("Exposure history initialized")
	return store, nil
}

func redisPing(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func initDecisionLog(ctx context.Context, cfg *config.DecisionLogConfig, c *DecisionComponents) (*decisionlog.Logger, error) {
	var store decisionlog.Store
	switch cfg.Backend {
	case config.DecisionLogBackendDuckDB:
		db, err := decisionlog.OpenDuckDB(cfg.DuckDBPath)
		if err != nil {
			return nil, err
		}
		c.onClose(db.Close)

		duck := decisionlog.NewDuckDBStore(db)
		if err := duck.CreateTable(ctx); err != nil {
			return nil, fmt.Errorf("decision log schema: %w", err)
		}
		store = duck
		c.Checks = append(c.Checks, api.ReadinessCheck{Name: "decision_log", Check: db.PingContext})

	default:
		store = decisionlog.NewMemoryStore(cfg.MemoryMaxEntries)
	}

	dl := decisionlog.NewLogger(store, &decisionlog.Config{
		Enabled:         true,
		RetentionDays:   cfg.RetentionDays,
		CleanupInterval: cfg.CleanupInterval,
		BufferSize:      cfg.BufferSize,
		WriteTimeout:    cfg.WriteTimeout,
	}, logging.Logger())
	// Drain queued entries before the store is closed.
	c.onClose(dl.Close)

	logging.Info().Str("backend", cfg.Backend).Int("retention_days", cfg.RetentionDays).Msg("Decision log initialized")
	return dl, nil
}

// decisionConfig maps the file configuration onto the engine configuration.
func decisionConfig(cfg *config.DecisionConfig) *decision.Config {
	return &decision.Config{
		Thresholds: decision.ThresholdConfig{
			Low:             cfg.Thresholds.Low,
			High:            cfg.Thresholds.High,
			ShortTextTokens: cfg.Thresholds.ShortTextTokens,
		},
		Candidates: decision.CandidateConfig{
			MinTokenLength:  cfg.Candidates.MinTokenLength,
			TextMatchWeight: cfg.Candidates.TextMatchWeight,
		},
		Ranking: decision.RankingConfig{
			DefaultCTR:            cfg.Ranking.DefaultCTR,
			DefaultCPC:            cfg.Ranking.DefaultCPC,
			SameItemPenalty:       cfg.Ranking.SameItemPenalty,
			SameAdvertiserPenalty: cfg.Ranking.SameAdvertiserPenalty,
		},
		Exploration: decision.ExplorationConfig{
			Epsilon: cfg.Exploration.Epsilon,
			TopK:    cfg.Exploration.TopK,
		},
		Keywords: decision.KeywordConfig{
			Sensitive:  cfg.Keywords.Sensitive,
			Chitchat:   cfg.Keywords.Chitchat,
			HighIntent: cfg.Keywords.HighIntent,
		},
		Seed: cfg.Seed,
	}
}

func strategySettings(cfg *config.StrategyConfig) strategy.Settings {
	return strategy.Settings{
		KillSwitch:      cfg.KillSwitch,
		AllowList:       cfg.AllowList,
		RolloutPercent:  cfg.RolloutPercent,
		V2Default:       cfg.V2Default,
		Timeout:         cfg.Timeout,
		DetachOnTimeout: cfg.DetachOnTimeout,
	}
}

// reloadStrategy re-reads path and applies the strategy section. Other
// sections need a restart.
func reloadStrategy(path string, settings *strategy.Store) func() error {
	return func() error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		next := strategySettings(&cfg.Strategy)
		if err := settings.Update(next); err != nil {
			return err
		}
		logging.Info().
			Bool("kill_switch", next.KillSwitch).
			Int("allow_list", len(next.AllowList)).
			Int("rollout_percent", next.RolloutPercent).
			Bool("v2_default", next.V2Default).
			Dur("timeout", next.Timeout).
			Msg("Strategy settings reloaded")
		return nil
	}
}
