// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/admatch/internal/catalog"
	"github.com/tomtom215/admatch/internal/decisionlog"
	"github.com/tomtom215/admatch/internal/models"
	"github.com/tomtom215/admatch/internal/strategy"
)

// Decider produces one decision per request. *strategy.Gate implements it.
type Decider interface {
	Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error)
}

// OpportunityScorer classifies a single message. *decision.Engine implements it.
type OpportunityScorer interface {
	ScoreOpportunity(text, language string) models.Opportunity
}

// CatalogService is the cached catalog. *catalog.Service implements it.
type CatalogService interface {
	ActiveItems(ctx context.Context) ([]*models.Item, error)
	Invalidate()
	Stats() catalog.Stats
}

// DecisionLog answers decision history queries. *decisionlog.Logger implements it.
type DecisionLog interface {
	Query(ctx context.Context, filter decisionlog.QueryFilter) ([]decisionlog.Entry, error)
	Stats(ctx context.Context) (*models.DecisionStats, error)
}

// ReadinessCheck is one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name string
	// Critical checks make the service not ready when they fail; others
	// are reported as degraded.
	Critical bool
	Check    func(ctx context.Context) error
}

// Handler serves the API endpoints.
type Handler struct {
	decider      Decider
	scorer       OpportunityScorer
	catalog      CatalogService
	decisionLog  DecisionLog
	settings     *strategy.Store
	checks       []ReadinessCheck
	maxBodyBytes int64
	checkTimeout time.Duration
	startTime    time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithDecisionLog enables the decision history endpoints.
func WithDecisionLog(l DecisionLog) HandlerOption {
	return func(h *Handler) { h.decisionLog = l }
}

// WithStrategySettings exposes the gate settings at GET /strategy.
func WithStrategySettings(s *strategy.Store) HandlerOption {
	return func(h *Handler) { h.settings = s }
}

// WithReadinessChecks adds readiness probes.
func WithReadinessChecks(checks ...ReadinessCheck) HandlerOption {
	return func(h *Handler) { h.checks = append(h.checks, checks...) }
}

// WithMaxBodyBytes limits request bodies. Default: 64KB.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler creates a Handler. decider, scorer and catalog are required.
func NewHandler(decider Decider, scorer OpportunityScorer, catalog CatalogService, opts ...HandlerOption) *Handler {
	h := &Handler{
		decider:      decider,
		scorer:       scorer,
		catalog:      catalog,
		maxBodyBytes: 64 << 10,
		checkTimeout: 2 * time.Second,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
