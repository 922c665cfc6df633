// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package api

import (
	"context"
	"sync"

	"github.com/tomtom215/admatch/internal/catalog"
	"github.com/tomtom215/admatch/internal/decisionlog"
	"github.com/tomtom215/admatch/internal/models"
)

type mockDecider struct {
	mu       sync.Mutex
	requests []models.DecisionRequest
	decision *models.Decision
	err      error
}

func (m *mockDecider) Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.decision, nil
}

func (m *mockDecider) last() models.DecisionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type mockScorer struct{}

func (mockScorer) ScoreOpportunity(text, _ string) models.Opportunity {
	if text == "hello" {
		return models.Opportunity{Score: 0.1, Intent: models.IntentChitchat}
	}
	return models.Opportunity{Score: 0.8, Intent: models.IntentHighCommercial}
}

type mockCatalog struct {
	items       []*models.Item
	err         error
	invalidated int
}

func (m *mockCatalog) ActiveItems(context.Context) ([]*models.Item, error) {
	return m.items, m.err
}

func (m *mockCatalog) Invalidate() { m.invalidated++ }

func (m *mockCatalog) Stats() catalog.Stats {
	return catalog.Stats{Source: "memory"}
}

type mockDecisionLog struct {
	filter decisionlog.QueryFilter
	stats  *models.DecisionStats
	err    error
}

func (m *mockDecisionLog) Query(_ context.Context, f decisionlog.QueryFilter) ([]decisionlog.Entry, error) {
	m.filter = f
	if m.err != nil {
		return nil, m.err
	}
	return []decisionlog.Entry{{DecisionID: "d1", Outcome: models.OutcomeShown}}, nil
}

func (m *mockDecisionLog) Stats(context.Context) (*models.DecisionStats, error) {
	return m.stats, m.err
}
