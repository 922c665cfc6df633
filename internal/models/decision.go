// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package models

// Intent is the coarse commercial classification of a message.
type Intent string

const (
	IntentSensitive        Intent = "sensitive"
	IntentChitchat         Intent = "chitchat"
	IntentLowIntent        Intent = "low_intent"
	IntentMediumCommercial Intent = "medium_commercial"
	IntentHighCommercial   Intent = "high_commercial"
)

// Opportunity is the output of opportunity scoring. Score is in [0,1].
type Opportunity struct {
	Score  float64 `json:"score"`
	Intent Intent  `json:"intent"`
}

// MatchSource records how a candidate matched the message.
type MatchSource string

const (
	MatchSourceTag  MatchSource = "tag"
	MatchSourceText MatchSource = "text"
)

// ScoredCandidate is an item judged topically relevant to a message.
type ScoredCandidate struct {
	Item   *Item       `json:"item"`
	Score  float64     `json:"score"`
	Source MatchSource `json:"source"`
}

// RankingResult is a candidate priced by expected value.
//
// ExpectedValue = BaseCTR * CPC * (1 - FatiguePenalty).
type RankingResult struct {
	Item           *Item       `json:"item"`
	MatchScore     float64     `json:"match_score"`
	MatchSource    MatchSource `json:"match_source"`
	BaseCTR        float64     `json:"base_ctr"`
	CPC            float64     `json:"cpc"`
	FatiguePenalty float64     `json:"fatigue_penalty"`
	FormatPenalty  float64     `json:"format_penalty"`
	ExpectedValue  float64     `json:"expected_value"`
}

// ResolvedFormatConfig is a FormatConfig localized for one caller.
type ResolvedFormatConfig struct {
	ImageURL   string            `json:"image_url,omitempty"`
	Badge      string            `json:"badge,omitempty"`
	Disclaimer string            `json:"disclaimer,omitempty"`
	Options    map[string]string `json:"options,omitempty"`
}

// ResolvedItem is the caller-facing payload of a selected item.
type ResolvedItem struct {
	ID             string                `json:"id"`
	AdvertiserID   string                `json:"advertiser_id"`
	AdvertiserName string                `json:"advertiser_name"`
	Format         Format                `json:"format"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	CTA            string                `json:"cta"`
	URL            string                `json:"url"`
	Language       string                `json:"language"`
	FormatConfig   *ResolvedFormatConfig `json:"format_config,omitempty"`
}

// Strategy names the decider that produced a decision.
type Strategy string

const (
	StrategyV2 Strategy = "v2"
	StrategyV1 Strategy = "v1"
)

// Outcome summarizes why a decision did or did not return an item.
type Outcome string

const (
	OutcomeShown          Outcome = "shown"
	OutcomeLowOpportunity Outcome = "low_opportunity"
	OutcomeNoCandidates   Outcome = "no_candidates"
	OutcomeNoSelection    Outcome = "no_selection"
)

// ScoreBreakdown explains the expected value of the selected item.
// Relevance and Exploration are reserved and currently always 0.
type ScoreBreakdown struct {
	BaseScore      float64 `json:"base_score"`
	FatiguePenalty float64 `json:"fatigue_penalty"`
	FormatPenalty  float64 `json:"format_penalty"`
	Relevance      float64 `json:"relevance"`
	Exploration    float64 `json:"exploration"`
}

// PhaseTimings holds wall-clock milliseconds per pipeline phase.
// Phases that did not run stay at 0.
type PhaseTimings struct {
	OpportunityMS float64 `json:"opportunity_ms"`
	CandidatesMS  float64 `json:"candidates_ms"`
	RankingMS     float64 `json:"ranking_ms"`
	SelectionMS   float64 `json:"selection_ms"`
	TotalMS       float64 `json:"total_ms"`
}

// DecisionMetadata is created fresh for every decision and never read back
// by the pipeline.
type DecisionMetadata struct {
	DecisionID       string         `json:"decision_id"`
	Strategy         Strategy       `json:"strategy"`
	Outcome          Outcome        `json:"outcome"`
	OpportunityScore float64        `json:"opportunity_score"`
	Intent           Intent         `json:"intent,omitempty"`
	CandidateCount   int            `json:"candidate_count"`
	FinalEV          float64        `json:"final_ev"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	Explored         bool           `json:"explored"`
	UsedLegacy       bool           `json:"used_legacy"`
	FallbackReason   string         `json:"fallback_reason,omitempty"`
	Timings          PhaseTimings   `json:"timings"`
}

// Decision is the result of a single decision call. Item is nil when
// nothing should be shown.
type Decision struct {
	Item *ResolvedItem    `json:"item"`
	Meta DecisionMetadata `json:"meta"`
}

// Shown reports whether the decision carries an item.
func (d *Decision) Shown() bool {
	return d != nil && d.Item != nil
}

// DecisionRequest is the input to a decision.
type DecisionRequest struct {
	CallerID            string   `json:"caller_id" validate:"omitempty,max=128"`
	ConversationID      string   `json:"conversation_id" validate:"omitempty,max=128"`
	Text                string   `json:"text" validate:"required,max=4000"`
	Language            string   `json:"language" validate:"omitempty,max=16,langtag"`
	Formats             []Format `json:"formats" validate:"omitempty,max=4,dive,oneof=text card banner carousel"`
	RecentItemIDs       []string `json:"recent_item_ids" validate:"omitempty,max=100,dive,max=128"`
	RecentAdvertiserIDs []string `json:"recent_advertiser_ids" validate:"omitempty,max=100,dive,max=128"`
	RequestID           string   `json:"-"`
}

// Exposure is the recently shown window for one conversation, newest first.
type Exposure struct {
	ItemIDs       []string `json:"item_ids"`
	AdvertiserIDs []string `json:"advertiser_ids"`
}
