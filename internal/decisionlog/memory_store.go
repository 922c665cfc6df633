// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decisionlog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/admatch/internal/models"
)

// MemoryStore implements Store in memory. Data is lost on restart.
type MemoryStore struct {
	entries []Entry
	mu      sync.RWMutex
	maxLen  int
}

// NewMemoryStore creates a store holding at most maxLen entries.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		entries: make([]Entry, 0, min(maxLen, 1024)),
		maxLen:  maxLen,
	}
}

// Save implements Store. When full, the oldest 10% is discarded.
func (s *MemoryStore) Save(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxLen {
		removeCount := max(s.maxLen/10, 1)
		s.entries = s.entries[removeCount:]
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Query implements Store.
func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Entry
	skipped := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !matches(&e, &filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		results = append(results, e)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

func matches(e *Entry, f *QueryFilter) bool {
	switch {
	case f.CallerID != "" && e.CallerID != f.CallerID:
		return false
	case f.ConversationID != "" && e.ConversationID != f.ConversationID:
		return false
	case len(f.Strategies) > 0 && !slices.Contains(f.Strategies, e.Strategy):
		return false
	case len(f.Outcomes) > 0 && !slices.Contains(f.Outcomes, e.Outcome):
		return false
	case f.StartTime != nil && e.Timestamp.Before(*f.StartTime):
		return false
	case f.EndTime != nil && e.Timestamp.After(*f.EndTime):
		return false
	}
	return true
}

// Stats implements Store.
func (s *MemoryStore) Stats(_ context.Context) (*models.DecisionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := newStats()
	for i := range s.entries {
		e := &s.entries[i]
		stats.Total++
		stats.ByOutcome[string(e.Outcome)]++
		stats.ByStrategy[string(e.Strategy)]++
		if e.FallbackReason != "" {
			stats.Fallbacks++
		}
	}
	return stats, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.Timestamp.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
