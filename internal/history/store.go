// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package history

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/admatch/internal/models"
)

const (
	// DefaultWindow is the number of exposures kept per conversation.
	DefaultWindow = 10

	// DefaultTTL is how long an idle conversation window is kept.
	DefaultTTL = 24 * time.Hour
)

// ErrNoConversation is returned by Record when the conversation id is empty.
var ErrNoConversation = errors.New("conversation id required")

// Store reads and appends exposure windows.
type Store interface {
	// Recent returns the window for a conversation, newest first. An unknown
	// conversation returns an empty Exposure.
	Recent(ctx context.Context, conversationID string) (models.Exposure, error)

	// Record appends a shown item to the window.
	Record(ctx context.Context, conversationID, itemID, advertiserID string) error

	Close() error
}

// Config bounds the window.
type Config struct {
	Window int
	TTL    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

// entry is one exposure as persisted by the backends.
type entry struct {
	ItemID       string    `json:"item_id"`
	AdvertiserID string    `json:"advertiser_id"`
	ShownAt      time.Time `json:"shown_at"`
}

// prepend adds e to the front of entries and truncates to window.
func prepend(entries []entry, e entry, window int) []entry {
	out := make([]entry, 0, min(len(entries)+1, window))
	out = append(out, e)
	for _, old := range entries {
		if len(out) == window {
			break
		}
		out = append(out, old)
	}
	return out
}

// toExposure flattens entries into distinct ids, newest first.
func toExposure(entries []entry) models.Exposure {
	exp := models.Exposure{
		ItemIDs:       make([]string, 0, len(entries)),
		AdvertiserIDs: make([]string, 0, len(entries)),
	}
	seenItems := make(map[string]struct{}, len(entries))
	seenAdvertisers := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if _, ok := seenItems[e.ItemID]; !ok && e.ItemID != "" {
			seenItems[e.ItemID] = struct{}{}
			exp.ItemIDs = append(exp.ItemIDs, e.ItemID)
		}
		if _, ok := seenAdvertisers[e.AdvertiserID]; !ok && e.AdvertiserID != "" {
			seenAdvertisers[e.AdvertiserID] = struct{}{}
			exp.AdvertiserIDs = append(exp.AdvertiserIDs, e.AdvertiserID)
		}
	}
	return exp
}

func emptyExposure() models.Exposure {
	return models.Exposure{ItemIDs: []string{}, AdvertiserIDs: []string{}}
}
