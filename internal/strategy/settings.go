// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"
)

// DefaultTimeout is the v2 deadline when none is configured.
const DefaultTimeout = 200 * time.Millisecond

// ErrInvalidSettings is returned (wrapped) by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid strategy settings")

// Rule names the eligibility rule that picked a strategy.
type Rule string

const (
	RuleKillSwitch Rule = "kill_switch"
	RuleAllowList  Rule = "allow_list"
	RuleRollout    Rule = "rollout"
	RuleDefault    Rule = "default"
)

// Settings controls which callers get the v2 pipeline.
type Settings struct {
	// KillSwitch forces v1 for every caller.
	KillSwitch bool `json:"kill_switch"`

	// AllowList forces v2 for the listed caller ids.
	AllowList []string `json:"allow_list"`

	// RolloutPercent enables v2 for callers whose bucket is below it.
	// 0 disables the rollout rule.
	RolloutPercent int `json:"rollout_percent"`

	// V2Default applies when no other rule decides.
	V2Default bool `json:"v2_default"`

	// Timeout bounds the v2 computation.
	Timeout time.Duration `json:"timeout"`

	// DetachOnTimeout lets a timed out v2 computation run to completion in
	// the background instead of cancelling it. Its result is discarded.
	DetachOnTimeout bool `json:"detach_on_timeout"`
}

// DefaultSettings returns v2 for everyone with a 200ms deadline.
func DefaultSettings() Settings {
	return Settings{
		V2Default: true,
		Timeout:   DefaultTimeout,
	}
}

// Validate checks ranges.
func (s *Settings) Validate() error {
	if s.RolloutPercent < 0 || s.RolloutPercent > 100 {
		return fmt.Errorf("%w: rollout_percent must be in [0,100], got %d", ErrInvalidSettings, s.RolloutPercent)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidSettings, s.Timeout)
	}
	return nil
}

// Evaluate reports whether callerID gets v2 and which rule decided.
//
// Rules apply in order: kill switch, allow list, rollout, default.
// An empty caller id skips the allow list and rollout. When RolloutPercent
// is above zero the rollout rule is final: a caller outside the bucket gets
// v1 even if V2Default is true. V2Default only applies at 0%.
func (s *Settings) Evaluate(callerID string) (bool, Rule) {
	if s.KillSwitch {
		return false, RuleKillSwitch
	}
	if callerID != "" {
		if slices.Contains(s.AllowList, callerID) {
			return true, RuleAllowList
		}
		if s.RolloutPercent > 0 {
			return Bucket(callerID) < s.RolloutPercent, RuleRollout
		}
	}
	return s.V2Default, RuleDefault
}

// IsV2Enabled reports whether callerID gets the v2 pipeline.
func (s *Settings) IsV2Enabled(callerID string) bool {
	enabled, _ := s.Evaluate(callerID)
	return enabled
}

// TimeoutMS returns the v2 deadline in milliseconds.
func (s *Settings) TimeoutMS() int64 {
	return s.Timeout.Milliseconds()
}

// Store holds the current Settings and swaps them atomically on reload.
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore creates a store. Invalid settings are rejected.
func NewStore(initial Settings) (*Store, error) {
	st := &Store{}
	if err := st.Update(initial); err != nil {
		return nil, err
	}
	return st, nil
}

// Load returns the current settings. Callers must not mutate the result.
func (st *Store) Load() *Settings {
	return st.current.Load()
}

// Update validates and installs new settings. On error the previous
// settings stay in place.
func (st *Store) Update(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.AllowList = slices.Clone(s.AllowList)
	st.current.Store(&s)
	return nil
}
