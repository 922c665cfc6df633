// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/models"
)

// Observer is notified after every decision returned by the Gate.
// Implementations must not block; slow work belongs on their own goroutine.
type Observer interface {
	OnDecision(ctx context.Context, req *models.DecisionRequest, d *models.Decision)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, req *models.DecisionRequest, d *models.Decision)

// OnDecision implements Observer.
func (f ObserverFunc) OnDecision(ctx context.Context, req *models.DecisionRequest, d *models.Decision) {
	f(ctx, req, d)
}

// ExposureRecorder appends a shown item to a conversation's history.
type ExposureRecorder interface {
	Record(ctx context.Context, conversationID, itemID, advertiserID string) error
}

// HistoryObserver records shown items into the exposure history.
type HistoryObserver struct {
	recorder ExposureRecorder
	logger   zerolog.Logger
}

// NewHistoryObserver creates an observer writing to recorder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHistoryObserver(recorder ExposureRecorder, logger zerolog.Logger) *HistoryObserver {
	return &HistoryObserver{
		recorder: recorder,
		logger:   logger.With().Str("component", "history_observer").Logger(),
	}
}

// OnDecision implements Observer. Decisions without an item or without a
// conversation id are ignored.
func (h *HistoryObserver) OnDecision(ctx context.Context, req *models.DecisionRequest, d *models.Decision) {
	if !d.Shown() || req.ConversationID == "" {
		return
	}
	if err := h.recorder.Record(ctx, req.ConversationID, d.Item.ID, d.Item.AdvertiserID); err != nil {
		h.logger.Warn().Err(err).
			Str("conversation_id", req.ConversationID).
			Str("item_id", d.Item.ID).
			Msg("failed to record exposure")
	}
}
