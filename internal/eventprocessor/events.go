// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package eventprocessor

import (
	"errors"
	"time"

	"github.com/tomtom215/admatch/internal/models"
)

// DefaultTopic is the subject decision events are published on.
const DefaultTopic = "admatch.decisions"

// SchemaVersion is bumped on incompatible DecisionEvent changes.
const SchemaVersion = 1

// DecisionEvent is the wire form of one decision.
type DecisionEvent struct {
	Version          int                 `json:"version"`
	DecisionID       string              `json:"decision_id"`
	RequestID        string              `json:"request_id,omitempty"`
	CallerID         string              `json:"caller_id,omitempty"`
	ConversationID   string              `json:"conversation_id,omitempty"`
	Strategy         models.Strategy     `json:"strategy"`
	Outcome          models.Outcome      `json:"outcome"`
	Intent           models.Intent       `json:"intent,omitempty"`
	OpportunityScore float64             `json:"opportunity_score"`
	ItemID           string              `json:"item_id,omitempty"`
	AdvertiserID     string              `json:"advertiser_id,omitempty"`
	FinalEV          float64             `json:"final_ev"`
	Explored         bool                `json:"explored"`
	FallbackReason   string              `json:"fallback_reason,omitempty"`
	Timings          models.PhaseTimings `json:"timings"`
	Timestamp        time.Time           `json:"timestamp"`
}

// NewDecisionEvent builds an event from a request and its decision.
func NewDecisionEvent(req *models.DecisionRequest, d *models.Decision, now time.Time) *DecisionEvent {
	ev := &DecisionEvent{
		Version:          SchemaVersion,
		DecisionID:       d.Meta.DecisionID,
		Strategy:         d.Meta.Strategy,
		Outcome:          d.Meta.Outcome,
		Intent:           d.Meta.Intent,
		OpportunityScore: d.Meta.OpportunityScore,
		FinalEV:          d.Meta.FinalEV,
		Explored:         d.Meta.Explored,
		FallbackReason:   d.Meta.FallbackReason,
		Timings:          d.Meta.Timings,
		Timestamp:        now.UTC(),
	}
	if req != nil {
		ev.RequestID = req.RequestID
		ev.CallerID = req.CallerID
		ev.ConversationID = req.ConversationID
	}
	if d.Item != nil {
		ev.ItemID = d.Item.ID
		ev.AdvertiserID = d.Item.AdvertiserID
	}
	return ev
}

// Validate checks the fields consumers rely on.
func (e *DecisionEvent) Validate() error {
	switch {
	case e.DecisionID == "":
		return errors.New("decision_id is required")
	case e.Strategy == "":
		return errors.New("strategy is required")
	case e.Outcome == "":
		return errors.New("outcome is required")
	case e.Timestamp.IsZero():
		return errors.New("timestamp is required")
	case e.Outcome == models.OutcomeShown && e.ItemID == "":
		return errors.New("item_id is required for shown decisions")
	}
	return nil
}
