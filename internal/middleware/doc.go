// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package middleware provides HTTP middleware shared by the API router.
//
//   - RequestID: accepts or generates X-Request-ID and stores it in the
//     logging context so logging.Ctx(ctx) includes request_id
//   - PrometheusMetrics: admatch_api_requests_total and
//     admatch_api_request_duration_seconds labelled by chi route pattern
//   - AccessLog: per-request debug log line, warning on 5xx
//
// All middleware has the func(http.Handler) http.Handler shape used by
// chi's r.Use.
package middleware
