// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package catalog

import (
	"context"
	"sync"

	"github.com/tomtom215/admatch/internal/models"
)

// MemorySource keeps the catalog in process. Used for tests and seeding.
type MemorySource struct {
	mu          sync.RWMutex
	items       []*models.Item
	index       map[string]int
	advertisers map[string]models.Advertiser
}

// NewMemorySource creates a source holding items and advertisers.
func NewMemorySource(items []*models.Item, advertisers []models.Advertiser) *MemorySource {
	m := &MemorySource{
		index:       make(map[string]int),
		advertisers: make(map[string]models.Advertiser),
	}
	for _, it := range items {
		m.UpsertItem(it)
	}
	for _, a := range advertisers {
		m.UpsertAdvertiser(a)
	}
	return m
}

// Name implements Source.
func (m *MemorySource) Name() string { return "memory" }

// ActiveItems implements Source. Items are returned in insertion order.
func (m *MemorySource) ActiveItems(_ context.Context) ([]*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterActive(m.items), nil
}

// Advertiser implements Source.
func (m *MemorySource) Advertiser(_ context.Context, id string) (*models.Advertiser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.advertisers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

// Ping implements Source.
func (m *MemorySource) Ping(_ context.Context) error { return nil }

// UpsertItem inserts or replaces an item, keeping its original position.
func (m *MemorySource) UpsertItem(item *models.Item) {
	if item == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.index[item.ID]; ok {
		m.items[i] = item
		return
	}
	m.index[item.ID] = len(m.items)
	m.items = append(m.items, item)
}

// UpsertAdvertiser inserts or replaces an advertiser.
func (m *MemorySource) UpsertAdvertiser(a models.Advertiser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advertisers[a.ID] = a
}

// Replace swaps the whole catalog.
func (m *MemorySource) Replace(items []*models.Item, advertisers []models.Advertiser) {
	fresh := NewMemorySource(items, advertisers)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items, m.index, m.advertisers = fresh.items, fresh.index, fresh.advertisers
}
