// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package decisionlog records every decision for offline analysis.
//
// # Overview
//
// The log sits behind the strategy gate as an observer. Entries are queued
// on a buffered channel and written by a single background goroutine, so the
// request path never waits on storage. When the buffer is full the entry is
// dropped and counted in admatch_decision_log_writes_total{result="dropped"}.
//
// # Storage Backends
//
//   - MemoryStore: bounded in-memory slice for development and tests
//   - DuckDBStore: decision_log table for durable, SQL-queryable history
//
// # Retention
//
// RunCleanup deletes entries older than RetentionDays on every
// CleanupInterval tick until its context is cancelled.
//
// # Usage
//
//	store := decisionlog.NewDuckDBStore(db)
//	if err := store.CreateTable(ctx); err != nil {
//	    return err
//	}
//	dl := decisionlog.NewLogger(store, cfg, logger)
//	defer dl.Close()
//	gate := strategy.NewGate(settings, engine, legacy, logger,
//	    strategy.WithObservers(dl))
package decisionlog
