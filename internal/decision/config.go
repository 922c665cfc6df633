// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned (wrapped) by Config.Validate.
var ErrInvalidConfig = errors.New("invalid decision config")

// Config contains all tunables of the decision pipeline.
type Config struct {
	// Thresholds gate the pipeline on the opportunity score.
	Thresholds ThresholdConfig `json:"thresholds"`

	// Candidates controls tokenization and match scoring.
	Candidates CandidateConfig `json:"candidates"`

	// Ranking contains performance priors and fatigue penalties.
	Ranking RankingConfig `json:"ranking"`

	// Exploration controls epsilon-greedy selection.
	Exploration ExplorationConfig `json:"exploration"`

	// Keywords extends the built-in opportunity keyword lists.
	Keywords KeywordConfig `json:"keywords"`

	// Seed is the random seed for exploration.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ThresholdConfig holds the opportunity thresholds.
type ThresholdConfig struct {
	// Low is the score below which no item is shown. Default: 0.3.
	Low float64 `json:"low"`

	// High marks full availability. Reported to callers, not used by the
	// pipeline. Default: 0.7.
	High float64 `json:"high"`

	// ShortTextTokens is the whitespace token count below which a message
	// without keywords is low intent. Default: 3.
	ShortTextTokens int `json:"short_text_tokens"`
}

// CandidateConfig controls candidate generation.
type CandidateConfig struct {
	// MinTokenLength is the shortest token, in runes, kept for matching.
	// Default: 3.
	MinTokenLength int `json:"min_token_length"`

	// TextMatchWeight is the score of one token occurrence in the item's
	// English title or description. Default: 0.5.
	TextMatchWeight float64 `json:"text_match_weight"`
}

// RankingConfig contains ranking priors and penalties.
type RankingConfig struct {
	DefaultCTR            float64 `json:"default_ctr"`
	DefaultCPC            float64 `json:"default_cpc"`
	SameItemPenalty       float64 `json:"same_item_penalty"`
	SameAdvertiserPenalty float64 `json:"same_advertiser_penalty"`
}

// ExplorationConfig controls selection.
type ExplorationConfig struct {
	// Epsilon is the probability of exploring. Default: 0.05.
	Epsilon float64 `json:"epsilon"`

	// TopK is the size of the slice explored uniformly. Default: 5.
	TopK int `json:"top_k"`
}

// KeywordConfig holds extra keywords appended to the built-in lists.
type KeywordConfig struct {
	Sensitive  []string `json:"sensitive"`
	Chitchat   []string `json:"chitchat"`
	HighIntent []string `json:"high_intent"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
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
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.Low < 0 || t.High > 1 || t.Low >= t.High {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= low < high <= 1 (low=%v high=%v)",
			ErrInvalidConfig, t.Low, t.High)
	}
	if t.ShortTextTokens < 0 {
		return fmt.Errorf("%w: short_text_tokens must be >= 0", ErrInvalidConfig)
	}
	if c.Candidates.MinTokenLength < 1 {
		return fmt.Errorf("%w: min_token_length must be >= 1", ErrInvalidConfig)
	}
	if c.Candidates.TextMatchWeight < 0 {
		return fmt.Errorf("%w: text_match_weight must be >= 0", ErrInvalidConfig)
	}

	r := c.Ranking
	if r.DefaultCTR < 0 || r.DefaultCTR > 1 {
		return fmt.Errorf("%w: default_ctr must be in [0,1]", ErrInvalidConfig)
	}
	if r.DefaultCPC < 0 {
		return fmt.Errorf("%w: default_cpc must be >= 0", ErrInvalidConfig)
	}
	if !unit(r.SameItemPenalty) || !unit(r.SameAdvertiserPenalty) {
		return fmt.Errorf("%w: fatigue penalties must be in [0,1]", ErrInvalidConfig)
	}

	if !unit(c.Exploration.Epsilon) {
		return fmt.Errorf("%w: epsilon must be in [0,1]", ErrInvalidConfig)
	}
	if c.Exploration.TopK < 1 {
		return fmt.Errorf("%w: top_k must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Keywords = KeywordConfig{
		Sensitive:  append([]string(nil), c.Keywords.Sensitive...),
		Chitchat:   append([]string(nil), c.Keywords.Chitchat...),
		HighIntent: append([]string(nil), c.Keywords.HighIntent...),
	}
	return &clone
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
