// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package api implements the AdMatch HTTP API on the Chi router.

# Endpoints

	POST /api/v1/decisions           decide whether to show a sponsored item
	GET  /api/v1/decisions           recent logged decisions (filters: caller_id,
	                                 conversation_id, strategy, outcome, since, until, limit, offset)
	GET  /api/v1/decisions/stats     counts by outcome and strategy
	POST /api/v1/opportunity         opportunity score and intent for one message
	GET  /api/v1/catalog/items       cached active items
	GET  /api/v1/catalog/stats       catalog cache statistics
	POST /api/v1/catalog/invalidate  drop cached items and advertisers
	GET  /api/v1/strategy            current strategy gate settings
	GET  /api/v1/health/live         liveness probe
	GET  /api/v1/health/ready        readiness probe (runs every ReadinessCheck)
	GET  /metrics                    Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 3}}
	{"status": "error", "data": null, "error": {"code": "VALIDATION_ERROR", "message": "text is required"}}

# Middleware

Global: request ID with logging context, real IP, panic recovery, CORS
(go-chi/cors). API routes add per-IP rate limiting (go-chi/httprate),
Prometheus request metrics and an access log. Request bodies are limited to
APIConfig.MaxBodyBytes.
*/
package api
