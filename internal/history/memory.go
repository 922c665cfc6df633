// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package history

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/admatch/internal/cache"
	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	mu    sync.Mutex // serializes read-modify-write in Record
	cfg   Config
	cache *cache.Cache
	now   func() time.Time
}

// NewMemoryStore creates a memory-backed store.
func NewMemoryStore(cfg Config, opts ...cache.Option) *MemoryStore {
	cfg = cfg.withDefaults()
	c := cache.New(cfg.TTL, opts...)
	return &MemoryStore{cfg: cfg, cache: c, now: time.Now}
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, conversationID string) (models.Exposure, error) {
	v, ok := s.cache.Get(conversationID)
	metrics.RecordHistoryOperation("memory", "recent", nil)
	if !ok {
		return emptyExposure(), nil
	}
	return toExposure(v.([]entry)), nil
}

// Record implements Store.
func (s *MemoryStore) Record(_ context.Context, conversationID, itemID, advertiserID string) error {
	if conversationID == "" {
		return ErrNoConversation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []entry
	if v, ok := s.cache.Get(conversationID); ok {
		entries = v.([]entry)
	}
	entries = prepend(entries, entry{ItemID: itemID, AdvertiserID: advertiserID, ShownAt: s.now()}, s.cfg.Window)
	s.cache.Set(conversationID, entries)

	metrics.RecordHistoryOperation("memory", "record", nil)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}
