// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package models

import (
	"time"
)

// APIResponse is the envelope used by every HTTP endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"item": {...}, "meta": {...}},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Common codes: VALIDATION_ERROR, INVALID_JSON, DECISION_ERROR,
// CATALOG_ERROR, NOT_FOUND, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// OpportunityRequest asks for the opportunity score of a single message.
type OpportunityRequest struct {
	Text     string `json:"text" validate:"required,max=4000"`
	Language string `json:"language" validate:"omitempty,max=16,langtag"`
}

// DecisionStats aggregates logged decisions.
type DecisionStats struct {
	Total      int64            `json:"total"`
	ByOutcome  map[string]int64 `json:"by_outcome"`
	ByStrategy map[string]int64 `json:"by_strategy"`
	Fallbacks  int64            `json:"fallbacks"`
}
