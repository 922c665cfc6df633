// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: explicit names mapped in envTransformFunc
//
// Sections:
//   - Server, API: HTTP listener and request limits
//   - Decision: pipeline thresholds, priors, exploration and keywords
//   - Strategy: v2 eligibility and timeout (hot-reloaded from the file)
//   - Catalog, Translate, History: collaborators of the pipeline
//   - DecisionLog, Events: decision sinks
//   - Logging
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Decision    DecisionConfig    `koanf:"decision"`
	Strategy    StrategyConfig    `koanf:"strategy"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Translate   TranslateConfig   `koanf:"translate"`
	History     HistoryConfig     `koanf:"history"`
	DecisionLog DecisionLogConfig `koanf:"decision_log"`
	Events      EventsConfig      `koanf:"events"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// APIConfig holds request limits and CORS settings
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// DecisionConfig mirrors decision.Config.
type DecisionConfig struct {
	Thresholds  ThresholdConfig   `koanf:"thresholds"`
	Candidates  CandidateConfig   `koanf:"candidates"`
	Ranking     RankingConfig     `koanf:"ranking"`
	Exploration ExplorationConfig `koanf:"exploration"`
	Keywords    KeywordConfig     `koanf:"keywords"`
	Seed        int64             `koanf:"seed"`
}

type ThresholdConfig struct {
	Low             float64 `koanf:"low"`
	High            float64 `koanf:"high"`
	ShortTextTokens int     `koanf:"short_text_tokens"`
}

type CandidateConfig struct {
	MinTokenLength  int     `koanf:"min_token_length"`
	TextMatchWeight float64 `koanf:"text_match_weight"`
}

type RankingConfig struct {
	DefaultCTR            float64 `koanf:"default_ctr"`
	DefaultCPC            float64 `koanf:"default_cpc"`
	SameItemPenalty       float64 `koanf:"same_item_penalty"`
	SameAdvertiserPenalty float64 `koanf:"same_advertiser_penalty"`
}

type ExplorationConfig struct {
	Epsilon float64 `koanf:"epsilon"`
	TopK    int     `koanf:"top_k"`
}

// KeywordConfig extends the built-in opportunity keyword lists.
type KeywordConfig struct {
	Sensitive  []string `koanf:"sensitive"`
	Chitchat   []string `koanf:"chitchat"`
	HighIntent []string `koanf:"high_intent"`
}

// StrategyConfig controls v2 eligibility. It is re-read when the config
// file changes.
type StrategyConfig struct {
	KillSwitch      bool          `koanf:"kill_switch"`
	AllowList       []string      `koanf:"allow_list"`
	RolloutPercent  int           `koanf:"rollout_percent"`
	V2Default       bool          `koanf:"v2_default"`
	Timeout         time.Duration `koanf:"timeout"`
	DetachOnTimeout bool          `koanf:"detach_on_timeout"`
}

// Catalog source names.
const (
	CatalogSourceFile   = "file"
	CatalogSourceMongo  = "mongo"
	CatalogSourceMemory = "memory"
)

// CatalogConfig selects the catalog source and its cache TTLs
type CatalogConfig struct {
	Source        string        `koanf:"source"` // file, mongo, memory
	FilePath      string        `koanf:"file_path"`
	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	ItemTTL       time.Duration `koanf:"item_ttl"`
	AdvertiserTTL time.Duration `koanf:"advertiser_ttl"`
	WarmInterval  time.Duration `koanf:"warm_interval"` // 0 disables the warmer
}

// TranslateConfig configures the OpenAI-backed translator.
// When disabled, non-English text is passed through unchanged.
type TranslateConfig struct {
	Enabled   bool          `koanf:"enabled"`
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	Model     string        `koanf:"model"`
	Timeout   time.Duration `koanf:"timeout"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	RateLimit float64       `koanf:"rate_limit"`
	Burst     int           `koanf:"burst"`
}

// History backend names.
const (
	HistoryBackendMemory = "memory"
	HistoryBackendRedis  = "redis"
	HistoryBackendBadger = "badger"
)

// HistoryConfig selects the exposure history backend
type HistoryConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Backend   string        `koanf:"backend"` // memory, redis, badger
	RedisURL  string        `koanf:"redis_url"`
	BadgerDir string        `koanf:"badger_dir"` // empty runs Badger in memory
	Window    int           `koanf:"window"`
	TTL       time.Duration `koanf:"ttl"`
}

// Decision log backend names.
const (
	DecisionLogBackendMemory = "memory"
	DecisionLogBackendDuckDB = "duckdb"
)

// DecisionLogConfig configures the asynchronous decision log
type DecisionLogConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Backend          string        `koanf:"backend"` // memory, duckdb
	DuckDBPath       string        `koanf:"duckdb_path"`
	MemoryMaxEntries int           `koanf:"memory_max_entries"`
	RetentionDays    int           `koanf:"retention_days"`
	CleanupInterval  time.Duration `koanf:"cleanup_interval"`
	BufferSize       int           `koanf:"buffer_size"`
	WriteTimeout     time.Duration `koanf:"write_timeout"`
}

// EventsConfig configures decision event publishing to NATS JetStream.
type EventsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	URL             string        `koanf:"url"`
	Topic           string        `koanf:"topic"`
	StreamName      string        `koanf:"stream_name"`
	StreamSubjects  []string      `koanf:"stream_subjects"`
	RetentionDays   int           `koanf:"retention_days"`
	DuplicateWindow time.Duration `koanf:"duplicate_window"`
	BufferSize      int           `koanf:"buffer_size"`
	PublishTimeout  time.Duration `koanf:"publish_timeout"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
