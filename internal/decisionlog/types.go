// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decisionlog

import (
	"context"
	"time"

	"github.com/tomtom215/admatch/internal/models"
)

// Entry is one logged decision.
type Entry struct {
	DecisionID       string              `json:"decision_id"`
	Timestamp        time.Time           `json:"timestamp"`
	RequestID        string              `json:"request_id,omitempty"`
	CallerID         string              `json:"caller_id,omitempty"`
	ConversationID   string              `json:"conversation_id,omitempty"`
	Language         string              `json:"language,omitempty"`
	Strategy         models.Strategy     `json:"strategy"`
	Outcome          models.Outcome      `json:"outcome"`
	Intent           models.Intent       `json:"intent,omitempty"`
	OpportunityScore float64             `json:"opportunity_score"`
	CandidateCount   int                 `json:"candidate_count"`
	ItemID           string              `json:"item_id,omitempty"`
	AdvertiserID     string              `json:"advertiser_id,omitempty"`
	FinalEV          float64             `json:"final_ev"`
	Explored         bool                `json:"explored"`
	UsedLegacy       bool                `json:"used_legacy"`
	FallbackReason   string              `json:"fallback_reason,omitempty"`
	Timings          models.PhaseTimings `json:"timings"`
}

// NewEntry builds an entry from a request and its decision.
func NewEntry(req *models.DecisionRequest, d *models.Decision, now time.Time) *Entry {
	e := &Entry{
		DecisionID:       d.Meta.DecisionID,
		Timestamp:        now.UTC(),
		Strategy:         d.Meta.Strategy,
		Outcome:          d.Meta.Outcome,
		Intent:           d.Meta.Intent,
		OpportunityScore: d.Meta.OpportunityScore,
		CandidateCount:   d.Meta.CandidateCount,
		FinalEV:          d.Meta.FinalEV,
		Explored:         d.Meta.Explored,
		UsedLegacy:       d.Meta.UsedLegacy,
		FallbackReason:   d.Meta.FallbackReason,
		Timings:          d.Meta.Timings,
	}
	if req != nil {
		e.RequestID = req.RequestID
		e.CallerID = req.CallerID
		e.ConversationID = req.ConversationID
		e.Language = req.Language
	}
	if d.Item != nil {
		e.ItemID = d.Item.ID
		e.AdvertiserID = d.Item.AdvertiserID
	}
	return e
}

// Store persists entries.
type Store interface {
	// Save persists an entry.
	Save(ctx context.Context, entry *Entry) error

	// Query returns entries matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Entry, error)

	// Stats aggregates every stored entry.
	Stats(ctx context.Context) (*models.DecisionStats, error)

	// Delete removes entries older than the given time.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter selects entries. Zero fields match everything.
type QueryFilter struct {
	CallerID       string            `json:"caller_id,omitempty"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Strategies     []models.Strategy `json:"strategies,omitempty"`
	Outcomes       []models.Outcome  `json:"outcomes,omitempty"`
	StartTime      *time.Time        `json:"start_time,omitempty"`
	EndTime        *time.Time        `json:"end_time,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Offset         int               `json:"offset,omitempty"`
}

func newStats() *models.DecisionStats {
	return &models.DecisionStats{
		ByOutcome:  make(map[string]int64),
		ByStrategy: make(map[string]int64),
	}
}
