// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/admatch/config.yaml",
	"/etc/admatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   600,
			RateLimitWindow: time.Minute,
			MaxBodyBytes:    64 << 10, // 64KB
		},
		Decision: DecisionConfig{
			Thresholds: ThresholdConfig{
				Low:             0.3,
				High:            0.7,
				ShortTextTokens: 3,
			},
			Candidates: CandidateConfig{
				MinTokenLength:  3,
				TextMatchWeight: 0.5,
			},
			Ranking: RankingConfig{
				DefaultCTR:            0.02,
				DefaultCPC:            1.0,
				SameItemPenalty:       0.5,
				SameAdvertiserPenalty: 0.3,
			},
			Exploration: ExplorationConfig{
				Epsilon: 0.05,
				TopK:    5,
			},
			Seed: 42,
		},
		Strategy: StrategyConfig{
			V2Default: true,
			Timeout:   200 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Source:        CatalogSourceFile,
			FilePath:      "/etc/admatch/catalog.yaml",
			MongoDatabase: "admatch",
			ItemTTL:       60 * time.Second,
			AdvertiserTTL: 5 * time.Minute,
			WarmInterval:  45 * time.Second,
		},
		Translate: TranslateConfig{
			Enabled:   false, // Opt-in: requires an API key
			Model:     "gpt-4o-mini",
			Timeout:   2 * time.Second,
			CacheTTL:  time.Hour,
			RateLimit: 20,
			Burst:     40,
		},
		History: HistoryConfig{
			Enabled: true,
			Backend: HistoryBackendMemory,
			Window:  10,
			TTL:     24 * time.Hour,
		},
		DecisionLog: DecisionLogConfig{
			Enabled:          true,
			Backend:          DecisionLogBackendMemory,
			DuckDBPath:       "/data/admatch.duckdb",
			MemoryMaxEntries: 100000,
			RetentionDays:    30,
			CleanupInterval:  24 * time.Hour,
			BufferSize:       1000,
			WriteTimeout:     5 * time.Second,
		},
		Events: EventsConfig{
			Enabled:         false, // Opt-in: requires a NATS server
			URL:             "nats://127.0.0.1:4222",
			Topic:           "admatch.decisions",
			StreamName:      "ADMATCH_DECISIONS",
			StreamSubjects:  []string{"admatch.>"},
			RetentionDays:   7,
			DuplicateWindow: 2 * time.Minute,
			BufferSize:      1000,
			PublishTimeout:  5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// HTTP_PORT -> server.port
	// STRATEGY_ROLLOUT_PERCENT -> strategy.rollout_percent
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigFile returns the config file Load would use, or "".
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
	"strategy.allow_list",
	"decision.keywords.sensitive",
	"decision.keywords.chitchat",
	"decision.keywords.high_intent",
	"events.stream_subjects",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// API
	"cors_origins":       "api.cors_origins",
	"rate_limit_reqs":    "api.rate_limit_reqs",
	"rate_limit_window":  "api.rate_limit_window",
	"disable_rate_limit": "api.rate_limit_disabled",
	"api_max_body_bytes": "api.max_body_bytes",

	// Decision pipeline
	"decision_low_threshold":           "decision.thresholds.low",
	"decision_high_threshold":          "decision.thresholds.high",
	"decision_short_text_tokens":       "decision.thresholds.short_text_tokens",
	"decision_min_token_length":        "decision.candidates.min_token_length",
	"decision_text_match_weight":       "decision.candidates.text_match_weight",
	"decision_default_ctr":             "decision.ranking.default_ctr",
	"decision_default_cpc":             "decision.ranking.default_cpc",
	"decision_same_item_penalty":       "decision.ranking.same_item_penalty",
	"decision_same_advertiser_penalty": "decision.ranking.same_advertiser_penalty",
	"decision_epsilon":                 "decision.exploration.epsilon",
	"decision_top_k":                   "decision.exploration.top_k",
	"decision_seed":                    "decision.seed",
	"decision_keywords_sensitive":      "decision.keywords.sensitive",
	"decision_keywords_chitchat":       "decision.keywords.chitchat",
	"decision_keywords_high_intent":    "decision.keywords.high_intent",

	// Strategy gate
	"strategy_kill_switch":       "strategy.kill_switch",
	"strategy_allow_list":        "strategy.allow_list",
	"strategy_rollout_percent":   "strategy.rollout_percent",
	"strategy_v2_default":        "strategy.v2_default",
	"strategy_timeout":           "strategy.timeout",
	"strategy_detach_on_timeout": "strategy.detach_on_timeout",

	// Catalog
	"catalog_source":         "catalog.source",
	"catalog_file":           "catalog.file_path",
	"mongo_uri":              "catalog.mongo_uri",
	"mongo_database":         "catalog.mongo_database",
	"catalog_item_ttl":       "catalog.item_ttl",
	"catalog_advertiser_ttl": "catalog.advertiser_ttl",
	"catalog_warm_interval":  "catalog.warm_interval",

	// Translation
	"translate_enabled":    "translate.enabled",
	"openai_api_key":       "translate.api_key",
	"openai_base_url":      "translate.base_url",
	"openai_model":         "translate.model",
	"translate_timeout":    "translate.timeout",
	"translate_cache_ttl":  "translate.cache_ttl",
	"translate_rate_limit": "translate.rate_limit",
	"translate_burst":      "translate.burst",

	// Exposure history
	"history_enabled":    "history.enabled",
	"history_backend":    "history.backend",
	"redis_url":          "history.redis_url",
	"history_badger_dir": "history.badger_dir",
	"history_window":     "history.window",
	"history_ttl":        "history.ttl",

	// Decision log
	"decision_log_enabled":          "decision_log.enabled",
	"decision_log_backend":          "decision_log.backend",
	"duckdb_path":                   "decision_log.duckdb_path",
	"decision_log_max_entries":      "decision_log.memory_max_entries",
	"decision_log_retention_days":   "decision_log.retention_days",
	"decision_log_cleanup_interval": "decision_log.cleanup_interval",
	"decision_log_buffer_size":      "decision_log.buffer_size",
	"decision_log_write_timeout":    "decision_log.write_timeout",

	// Decision events
	"nats_enabled":           "events.enabled",
	"nats_url":               "events.url",
	"events_topic":           "events.topic",
	"events_stream_name":     "events.stream_name",
	"events_stream_subjects": "events.stream_subjects",
	"events_retention_days":  "events.retention_days",
	"events_buffer_size":     "events.buffer_size",
	"events_publish_timeout": "events.publish_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STRATEGY_KILL_SWITCH -> strategy.kill_switch
//   - REDIS_URL -> history.redis_url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
// The caller is responsible for reloading and for synchronizing access to
// the reloaded configuration. Call stop to end the watch.
func WatchConfigFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)

	err = provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
	if err != nil {
		return nil, err
	}
	return provider.Unwatch, nil
}
