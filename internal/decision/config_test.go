// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("thresholds ordered within unit interval", func(t *testing.T) {
		if !(0 <= cfg.Thresholds.Low && cfg.Thresholds.Low < cfg.Thresholds.High && cfg.Thresholds.High <= 1) {
			t.Errorf("thresholds = %v/%v, want 0 <= low < high <= 1", cfg.Thresholds.Low, cfg.Thresholds.High)
		}
		if cfg.Thresholds.Low != 0.3 || cfg.Thresholds.High != 0.7 {
			t.Errorf("thresholds = %v/%v, want 0.3/0.7", cfg.Thresholds.Low, cfg.Thresholds.High)
		}
	})

	t.Run("ranking priors", func(t *testing.T) {
		r := cfg.Ranking
		if r.DefaultCTR != 0.02 || r.DefaultCPC != 1.0 {
			t.Errorf("priors = %v/%v, want 0.02/1.0", r.DefaultCTR, r.DefaultCPC)
		}
		if r.SameItemPenalty != 0.5 || r.SameAdvertiserPenalty != 0.3 {
			t.Errorf("penalties = %v/%v, want 0.5/0.3", r.SameItemPenalty, r.SameAdvertiserPenalty)
		}
	})

	t.Run("exploration", func(t *testing.T) {
		if cfg.Exploration.Epsilon != 0.05 || cfg.Exploration.TopK != 5 {
			t.Errorf("exploration = %+v, want 0.05/5", cfg.Exploration)
		}
	})

	t.Run("seed is set for determinism", func(t *testing.T) {
		if cfg.Seed == 0 {
			t.Error("Seed = 0, want non-zero for determinism")
		}
	})

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"low equals high", func(c *Config) { c.Thresholds.Low = 0.7 }, true},
		{"negative low", func(c *Config) { c.Thresholds.Low = -0.1 }, true},
		{"high above one", func(c *Config) { c.Thresholds.High = 1.1 }, true},
		{"epsilon above one", func(c *Config) { c.Exploration.Epsilon = 1.5 }, true},
		{"epsilon zero allowed", func(c *Config) { c.Exploration.Epsilon = 0 }, false},
		{"epsilon one allowed", func(c *Config) { c.Exploration.Epsilon = 1 }, false},
		{"top k zero", func(c *Config) { c.Exploration.TopK = 0 }, true},
		{"item penalty above one", func(c *Config) { c.Ranking.SameItemPenalty = 2 }, true},
		{"negative advertiser penalty", func(c *Config) { c.Ranking.SameAdvertiserPenalty = -0.1 }, true},
		{"ctr above one", func(c *Config) { c.Ranking.DefaultCTR = 1.2 }, true},
		{"negative cpc", func(c *Config) { c.Ranking.DefaultCPC = -1 }, true},
		{"zero token length", func(c *Config) { c.Candidates.MinTokenLength = 0 }, true},
		{"negative text weight", func(c *Config) { c.Candidates.TextMatchWeight = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keywords.HighIntent = []string{"quote"}

	clone := cfg.Clone()
	clone.Keywords.HighIntent[0] = "changed"
	clone.Thresholds.Low = 0.1

	if cfg.Keywords.HighIntent[0] != "quote" {
		t.Error("Clone shares keyword slice with original")
	}
	if cfg.Thresholds.Low != 0.3 {
		t.Error("Clone shares thresholds with original")
	}
}
