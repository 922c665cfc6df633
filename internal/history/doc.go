// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package history keeps a rolling window of the items recently shown in each
conversation.

The strategy gate reads the window before a decision so the ranker can apply
fatigue penalties, and the history observer appends to it after an item is
shown. Each conversation keeps at most Window entries, newest first, and the
whole window expires TTL after the last write.

Backends:

  - MemoryStore: process-local, built on cache.Cache
  - RedisStore: one list per conversation (LPUSH, LTRIM, EXPIRE in a
    MULTI/EXEC pipeline)
  - BadgerStore: one JSON value per conversation with a Badger entry TTL

All backends satisfy Store and are safe for concurrent use.
*/
package history
