// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/decision"
	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

var (
	// ErrV2Timeout is returned internally when v2 misses its deadline.
	ErrV2Timeout = errors.New("v2 decision timed out")

	// ErrV2Panic wraps a recovered panic from the v2 pipeline.
	ErrV2Panic = errors.New("v2 decision panicked")
)

// Fallback reasons reported in DecisionMetadata.FallbackReason.
const (
	FallbackTimeout = "timeout"
	FallbackError   = "error"
)

// Decider produces a decision for one request.
type Decider interface {
	Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error)
}

// ExposureSource returns the recently shown window for a conversation.
type ExposureSource interface {
	Recent(ctx context.Context, conversationID string) (models.Exposure, error)
}

// Gate chooses between the v2 pipeline and the v1 decider per caller,
// races v2 against a deadline and falls back to v1 on timeout or error.
type Gate struct {
	settings  *Store
	v2        Decider
	v1        Decider
	history   ExposureSource
	observers []Observer
	logger    zerolog.Logger
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithHistory merges stored exposure into each request before deciding.
func WithHistory(h ExposureSource) GateOption {
	return func(g *Gate) {
		g.history = h
	}
}

// WithObservers registers decision observers.
func WithObservers(obs ...Observer) GateOption {
	return func(g *Gate) {
		g.observers = append(g.observers, obs...)
	}
}

// NewGate creates a strategy gate.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGate(settings *Store, v2, v1 Decider, logger zerolog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		settings: settings,
		v2:       v2,
		v1:       v1,
		logger:   logger.With().Str("component", "strategy").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Settings returns the live settings store.
func (g *Gate) Settings() *Store {
	return g.settings
}

// Decide returns exactly one decision per call. v2 failures never surface
// as errors; only v1 failures and caller cancellation do.
func (g *Gate) Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error) {
	start := time.Now()
	s := g.settings.Load()
	req = g.withExposure(ctx, req)

	useV2, rule := s.Evaluate(req.CallerID)
	strategyName := models.StrategyV1
	if useV2 {
		strategyName = models.StrategyV2
	}
	metrics.RecordStrategySelection(string(strategyName), string(rule))

	var (
		d      *models.Decision
		err    error
		reason string
	)
	if useV2 {
		d, err = g.runV2(ctx, req, s)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			reason = FallbackError
			if errors.Is(err, ErrV2Timeout) {
				reason = FallbackTimeout
			}
			metrics.RecordStrategyFallback(reason)
			g.logger.Warn().
				Err(err).
				Str("request_id", req.RequestID).
				Str("reason", reason).
				Str("caller_id", req.CallerID).
				Dur("timeout", s.Timeout).
				Msg("v2 decision failed, falling back to v1")
			d = nil
		}
	}

	if d == nil {
		d, err = g.v1.Decide(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("v1 decision: %w", err)
		}
		d.Meta.FallbackReason = reason
	}

	if reason != "" {
		// Include the failed v2 attempt.
		d.Meta.Timings.TotalMS = decision.Milliseconds(time.Since(start))
	}

	metrics.RecordDecision(string(d.Meta.Strategy), string(d.Meta.Outcome))
	g.notify(ctx, req, d)
	return d, nil
}

// runV2 races v2 against the deadline. The v2 goroutine always delivers to
// a buffered channel so it never leaks blocked.
func (g *Gate) runV2(ctx context.Context, req *models.DecisionRequest, s *Settings) (*models.Decision, error) {
	type result struct {
		d   *models.Decision
		err error
	}

	parent := ctx
	if s.DetachOnTimeout {
		parent = context.WithoutCancel(ctx)
	}
	v2ctx, cancel := context.WithCancel(parent)

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrV2Panic, r)}
			}
		}()
		d, err := g.v2.Decide(v2ctx, req)
		if err == nil && d == nil {
			err = errors.New("v2 returned no decision")
		}
		done <- result{d: d, err: err}
	}()

	timer := time.NewTimer(s.Timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		cancel()
		return r.d, r.err
	case <-timer.C:
		if s.DetachOnTimeout {
			go func() {
				r := <-done
				cancel()
				g.logger.Debug().
					Err(r.err).
					Str("request_id", req.RequestID).
					Msg("detached v2 decision finished after timeout")
			}()
		} else {
			cancel()
		}
		return nil, fmt.Errorf("%w after %s", ErrV2Timeout, s.Timeout)
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// withExposure returns a copy of req with stored exposure merged after the
// ids supplied by the caller.
func (g *Gate) withExposure(ctx context.Context, req *models.DecisionRequest) *models.DecisionRequest {
	if g.history == nil || req.ConversationID == "" {
		return req
	}

	exp, err := g.history.Recent(ctx, req.ConversationID)
	if err != nil {
		g.logger.Warn().Err(err).
			Str("request_id", req.RequestID).
			Str("conversation_id", req.ConversationID).
			Msg("exposure history unavailable, deciding without it")
		return req
	}

	merged := *req
	merged.RecentItemIDs = MergeIDs(req.RecentItemIDs, exp.ItemIDs)
	merged.RecentAdvertiserIDs = MergeIDs(req.RecentAdvertiserIDs, exp.AdvertiserIDs)
	return &merged
}

func (g *Gate) notify(ctx context.Context, req *models.DecisionRequest, d *models.Decision) {
	if len(g.observers) == 0 {
		return
	}
	octx := context.WithoutCancel(ctx)
	for _, o := range g.observers {
		o.OnDecision(octx, req, d)
	}
}

// MergeIDs concatenates first and second, dropping empty and duplicate ids
// while keeping first occurrence order.
func MergeIDs(first, second []string) []string {
	if len(second) == 0 {
		return first
	}
	out := make([]string, 0, len(first)+len(second))
	seen := make(map[string]struct{}, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
