// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey      contextKey = "request_id"
	callerIDKey       contextKey = "caller_id"
	conversationIDKey contextKey = "conversation_id"
)

// GenerateRequestID creates a new request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a context carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithCaller returns a context carrying caller and conversation
// identifiers. Empty values are not stored.
func ContextWithCaller(ctx context.Context, callerID, conversationID string) context.Context {
	if callerID != "" {
		ctx = context.WithValue(ctx, callerIDKey, callerID)
	}
	if conversationID != "" {
		ctx = context.WithValue(ctx, conversationIDKey, conversationID)
	}
	return ctx
}

// CallerIDFromContext returns the caller ID, or "" if absent.
func CallerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}

// Ctx returns the global logger enriched with request_id, caller_id and
// conversation_id from ctx.
//
//	logging.Ctx(ctx).Info().Msg("Decision made")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a logger context builder pre-populated from ctx.
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := Logger().With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := CallerIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("caller_id", id)
	}
	if id, ok := ctx.Value(conversationIDKey).(string); ok && id != "" {
		logCtx = logCtx.Str("conversation_id", id)
	}
	return logCtx
}
