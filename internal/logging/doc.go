// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package logging provides centralized zerolog-based logging for AdMatch.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Catalog fetch failed")
//
//	// Request-scoped (request_id, caller_id, conversation_id)
//	logging.Ctx(ctx).Warn().Msg("v2 timed out, using v1")
//
// Components take a zerolog.Logger by value and tag it with a component
// field:
//
//	logger := logging.WithComponent("decision")
//
// Libraries that expect *slog.Logger (sutureslog) get a zerolog-backed
// handler through NewSlogLogger.
//
// # Configuration
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller info (default: false)
package logging
