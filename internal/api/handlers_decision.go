// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/admatch/internal/decisionlog"
	"github.com/tomtom215/admatch/internal/logging"
	"github.com/tomtom215/admatch/internal/models"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// Decide handles POST /api/v1/decisions.
//
// A decision with a nil item is a normal 200 response. Only v1 failures
// return an error; a client that disconnects gets 499.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DecisionRequest
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}
	req.RequestID = logging.RequestIDFromContext(r.Context())

	ctx := logging.ContextWithCaller(r.Context(), req.CallerID, req.ConversationID)
	d, err := h.decider.Decide(ctx, &req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondError(w, r, statusClientClosedRequest, ErrCodeCanceled, "request canceled", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeDecision, "failed to make a decision", err)
		return
	}

	respondSuccess(w, d, start)
}

// Opportunity handles POST /api/v1/opportunity.
func (h *Handler) Opportunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.OpportunityRequest
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}
	respondSuccess(w, h.scorer.ScoreOpportunity(req.Text, req.Language), start)
}

// DecisionStats handles GET /api/v1/decisions/stats.
func (h *Handler) DecisionStats(w http.ResponseWriter, r *http.Request) {
	if h.decisionLog == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "decision log is disabled", nil)
		return
	}

	start := time.Now()
	stats, err := h.decisionLog.Stats(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDecisionLog, "failed to read decision stats", err)
		return
	}
	respondSuccess(w, stats, start)
}

// Decisions handles GET /api/v1/decisions.
func (h *Handler) Decisions(w http.ResponseWriter, r *http.Request) {
	if h.decisionLog == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "decision log is disabled", nil)
		return
	}

	start := time.Now()
	filter, msg := parseQueryFilter(r)
	if msg != "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, msg, nil)
		return
	}

	entries, err := h.decisionLog.Query(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDecisionLog, "failed to query decisions", err)
		return
	}
	if entries == nil {
		entries = []decisionlog.Entry{}
	}
	respondSuccess(w, entries, start)
}

// parseQueryFilter reads decision log filters from the query string.
// It returns a non-empty message for invalid input.
func parseQueryFilter(r *http.Request) (decisionlog.QueryFilter, string) {
	q := r.URL.Query()
	filter := decisionlog.QueryFilter{
		CallerID:       q.Get("caller_id"),
		ConversationID: q.Get("conversation_id"),
		Limit:          defaultQueryLimit,
	}

	for _, s := range splitParam(q.Get("strategy")) {
		st := models.Strategy(s)
		if st != models.StrategyV1 && st != models.StrategyV2 {
			return filter, "strategy must be v1 or v2"
		}
		filter.Strategies = append(filter.Strategies, st)
	}
	for _, o := range splitParam(q.Get("outcome")) {
		switch models.Outcome(o) {
		case models.OutcomeShown, models.OutcomeLowOpportunity, models.OutcomeNoCandidates, models.OutcomeNoSelection:
			filter.Outcomes = append(filter.Outcomes, models.Outcome(o))
		default:
			return filter, "outcome must be one of: shown, low_opportunity, no_candidates, no_selection"
		}
	}

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, "since must be an RFC3339 timestamp"
		}
		filter.StartTime = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, "until must be an RFC3339 timestamp"
		}
		filter.EndTime = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxQueryLimit {
			return filter, "limit must be between 1 and " + strconv.Itoa(maxQueryLimit)
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, "offset must be a non-negative integer"
		}
		filter.Offset = n
	}
	return filter, ""
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
