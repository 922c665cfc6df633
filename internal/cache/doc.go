// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package cache provides the in-memory data structures shared by the
// catalog, translation and exposure history layers.
//
//   - Cache: thread-safe TTL cache with hit/miss statistics. It is always
//     constructed explicitly and injected; there is no package-level cache.
//   - AhoCorasick: multi-pattern matcher used for keyword detection.
//   - KeywordMatcher: AhoCorasick with whole-word semantics for single
//     tokens and literal semantics for phrases.
package cache
