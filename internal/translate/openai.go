// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/admatch/internal/cache"
	"github.com/tomtom215/admatch/internal/metrics"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

const breakerName = "openai-translate"

// errCallerGone marks upstream errors caused by the caller's context ending.
// The breaker does not count them as failures.
var errCallerGone = errors.New("caller context done")

const systemPrompt = "Translate the user's message to English. " +
	"Reply with the translation only. If the message is already English, repeat it unchanged."

// Config configures OpenAITranslator.
type Config struct {
	APIKey string

	// BaseURL overrides the API endpoint (Azure, proxies, tests).
	BaseURL string

	Model string

	// Timeout bounds a single upstream call.
	Timeout time.Duration

	// CacheTTL is how long translations are reused.
	CacheTTL time.Duration

	// RateLimit is the sustained upstream request rate per second.
	// Zero disables limiting.
	RateLimit float64
	Burst     int

	Breaker BreakerConfig
}

// DefaultConfig returns conservative defaults.
func DefaultConfig() Config {
	return Config{
		Model:     DefaultModel,
		Timeout:   2 * time.Second,
		CacheTTL:  time.Hour,
		RateLimit: 20,
		Burst:     40,
		Breaker:   DefaultBreakerConfig(),
	}
}

// OpenAITranslator translates with an OpenAI-compatible chat completion API.
//
// Upstream calls that fail, time out, are rate limited or are rejected by
// the open breaker fall back to the original text. Only successful
// translations are cached.
type OpenAITranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
	cache   *cache.Cache
	logger  zerolog.Logger
}

// NewOpenAITranslator creates a translator. Zero fields in cfg take the
// value from DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOpenAITranslator(cfg Config, logger zerolog.Logger) *OpenAITranslator {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker = def.Breaker
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	log := logger.With().Str("component", "translate").Logger()
	return &OpenAITranslator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		cb:      newBreaker(breakerName, cfg.Breaker, log),
		limiter: limiter,
		cache:   cache.New(cfg.CacheTTL),
		logger:  log,
	}
}

// ToEnglish implements Translator.
func (t *OpenAITranslator) ToEnglish(ctx context.Context, text, language string) string {
	if IsEnglish(language) || strings.TrimSpace(text) == "" {
		metrics.RecordTranslation("identity")
		return text
	}

	key := cache.GenerateKey("translate", map[string]string{"lang": strings.ToLower(language), "text": text})
	if v, ok := t.cache.Get(key); ok {
		metrics.RecordTranslation("cached")
		return v.(string)
	}

	if ctx.Err() != nil {
		metrics.RecordTranslation("canceled")
		return text
	}

	if t.limiter != nil && !t.limiter.Allow() {
		metrics.RecordTranslation("rate_limited")
		return text
	}

	translated, err := t.cb.Execute(func() (string, error) {
		out, err := t.complete(ctx, text, language)
		if err != nil && ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return out, err
	})
	if err != nil {
		if errors.Is(err, errCallerGone) {
			metrics.RecordTranslation("canceled")
			return text
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			metrics.RecordTranslation("rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			metrics.RecordTranslation("error")
			t.logger.Warn().Err(err).Str("language", language).Msg("translation failed, using original text")
		}
		return text
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	translated = strings.TrimSpace(translated)
	if translated == "" {
		metrics.RecordTranslation("error")
		return text
	}

	t.cache.Set(key, translated)
	metrics.RecordTranslation("translated")
	return translated
}

func (t *OpenAITranslator) complete(ctx context.Context, text, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "[" + language + "] " + text,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// BreakerState returns the breaker state name.
func (t *OpenAITranslator) BreakerState() string {
	return t.cb.State().String()
}

// Close releases the result cache.
func (t *OpenAITranslator) Close() {
	t.cache.Close()
}
