// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package strategy chooses between the v2 decision pipeline and the legacy
// v1 exact-tag decider.
//
// Eligibility is evaluated per caller in priority order: kill switch,
// allow list, percentage rollout (stable FNV-1a bucket of the caller id),
// then the global default. Settings live in a Store and are swapped
// atomically when the configuration file changes.
//
// When v2 is selected it runs on its own goroutine against Settings.Timeout.
// On timeout, error or panic the Gate logs a warning and runs v1 on the
// caller's goroutine. By default the timed out v2 context is cancelled;
// with DetachOnTimeout it keeps running and its result is dropped.
//
// Observers (exposure history, decision log, event publisher) are notified
// by the Gate after each returned decision, never by the detached branch.
package strategy
