// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/admatch/internal/logging"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

var validEnvironments = map[string]bool{
	"development": true, "staging": true, "production": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateAPI,
		c.validateDecision,
		c.validateStrategy,
		c.validateCatalog,
		c.validateTranslate,
		c.validateHistory,
		c.validateDecisionLog,
		c.validateEvents,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return invalid("server read and write timeouts must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return invalid("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.RateLimitDisabled {
		return nil
	}
	if c.API.RateLimitReqs < 1 {
		return invalid("RATE_LIMIT_REQS must be at least 1, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return invalid("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateDecision enforces 0 <= low < high <= 1, penalties and epsilon in
// [0,1] and top_k >= 1.
func (c *Config) validateDecision() error {
	d := c.Decision
	switch {
	case d.Thresholds.Low < 0 || d.Thresholds.Low >= d.Thresholds.High || d.Thresholds.High > 1:
		return invalid("decision thresholds must satisfy 0 <= low < high <= 1, got low=%v high=%v",
			d.Thresholds.Low, d.Thresholds.High)
	case d.Thresholds.ShortTextTokens < 0:
		return invalid("decision.thresholds.short_text_tokens must be >= 0")
	case d.Candidates.MinTokenLength < 1:
		return invalid("decision.candidates.min_token_length must be >= 1")
	case d.Candidates.TextMatchWeight < 0:
		return invalid("decision.candidates.text_match_weight must be >= 0")
	case !unit(d.Ranking.DefaultCTR):
		return invalid("decision.ranking.default_ctr must be in [0,1]")
	case d.Ranking.DefaultCPC < 0:
		return invalid("decision.ranking.default_cpc must be >= 0")
	case !unit(d.Ranking.SameItemPenalty) || !unit(d.Ranking.SameAdvertiserPenalty):
		return invalid("decision.ranking penalties must be in [0,1]")
	case !unit(d.Exploration.Epsilon):
		return invalid("decision.exploration.epsilon must be in [0,1]")
	case d.Exploration.TopK < 1:
		return invalid("decision.exploration.top_k must be >= 1")
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func (c *Config) validateStrategy() error {
	if c.Strategy.RolloutPercent < 0 || c.Strategy.RolloutPercent > 100 {
		return invalid("STRATEGY_ROLLOUT_PERCENT must be in [0,100], got %d", c.Strategy.RolloutPercent)
	}
	if c.Strategy.Timeout <= 0 {
		return invalid("STRATEGY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.FilePath == "" {
			return invalid("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case CatalogSourceMongo:
		if err := validateMongoURI(c.Catalog.MongoURI); err != nil {
			return invalid("MONGO_URI is invalid: %v", err)
		}
		if c.Catalog.MongoDatabase == "" {
			return invalid("MONGO_DATABASE is required when CATALOG_SOURCE=mongo")
		}
	case CatalogSourceMemory:
	default:
		return invalid("CATALOG_SOURCE must be one of: file, mongo, memory")
	}
	if c.Catalog.ItemTTL <= 0 || c.Catalog.AdvertiserTTL <= 0 {
		return invalid("catalog cache TTLs must be positive")
	}
	if c.Catalog.WarmInterval < 0 {
		return invalid("CATALOG_WARM_INTERVAL must be >= 0")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	if !c.Translate.Enabled {
		return nil
	}
	if c.Translate.APIKey == "" {
		return invalid("OPENAI_API_KEY is required when TRANSLATE_ENABLED=true")
	}
	if c.Translate.BaseURL != "" {
		if err := validateHTTPURL(c.Translate.BaseURL); err != nil {
			return invalid("OPENAI_BASE_URL is invalid: %v", err)
		}
	}
	if c.Translate.Timeout <= 0 {
		return invalid("TRANSLATE_TIMEOUT must be positive")
	}
	if c.Translate.RateLimit < 0 {
		return invalid("TRANSLATE_RATE_LIMIT must be >= 0")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	switch c.History.Backend {
	case HistoryBackendMemory, HistoryBackendBadger:
	case HistoryBackendRedis:
		if err := validateRedisURL(c.History.RedisURL); err != nil {
			return invalid("REDIS_URL is invalid: %v", err)
		}
	default:
		return invalid("HISTORY_BACKEND must be one of: memory, redis, badger")
	}
	if c.History.Window < 1 {
		return invalid("HISTORY_WINDOW must be >= 1")
	}
	if c.History.TTL <= 0 {
		return invalid("HISTORY_TTL must be positive")
	}
	return nil
}

func (c *Config) validateDecisionLog() error {
	if !c.DecisionLog.Enabled {
		return nil
	}
	switch c.DecisionLog.Backend {
	case DecisionLogBackendMemory:
		if c.DecisionLog.MemoryMaxEntries < 1 {
			return invalid("DECISION_LOG_MAX_ENTRIES must be >= 1")
		}
	case DecisionLogBackendDuckDB:
		if c.DecisionLog.DuckDBPath == "" {
			return invalid("DUCKDB_PATH is required when DECISION_LOG_BACKEND=duckdb")
		}
	default:
		return invalid("DECISION_LOG_BACKEND must be one of: memory, duckdb")
	}
	if c.DecisionLog.RetentionDays < 0 {
		return invalid("DECISION_LOG_RETENTION_DAYS must be >= 0")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if err := validateNATSURL(c.Events.URL); err != nil {
		return invalid("NATS_URL is invalid: %v", err)
	}
	if c.Events.Topic == "" || c.Events.StreamName == "" {
		return invalid("events topic and stream name are required")
	}
	if len(c.Events.StreamSubjects) == 0 {
		return invalid("events.stream_subjects must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, disabled")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return invalid("LOG_FORMAT must be json or console")
	}
	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
func validateHTTPURL(rawURL string) error {
	return validateURLScheme(rawURL, "http", "https")
}

// validateNATSURL supports nats://, tls://, ws:// and wss:// with a host.
func validateNATSURL(rawURL string) error {
	return validateURLScheme(rawURL, "nats", "tls", "ws", "wss")
}

func validateRedisURL(rawURL string) error {
	return validateURLScheme(rawURL, "redis", "rediss")
}

func validateMongoURI(rawURL string) error {
	return validateURLScheme(rawURL, "mongodb", "mongodb+srv")
}

func validateURLScheme(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return errors.New("URL is required")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	valid := false
	for _, s := range schemes {
		if parsedURL.Scheme == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("scheme must be one of %s, got: %q", strings.Join(schemes, ", "), parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("host is required")
	}
	return nil
}
