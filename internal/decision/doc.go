// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package decision implements the v2 sponsored placement pipeline.
//
// # Pipeline
//
// A decision runs four phases in order, exiting early with no item when a
// phase leaves nothing to do:
//
//  1. Opportunity: OpportunityScorer classifies the message. Scores below
//     the low threshold (default 0.3) stop the pipeline.
//  2. Candidates: CandidateGenerator translates the message to English,
//     tokenizes it and matches active items by tag, then by title and
//     description text.
//  3. Ranking: Ranker computes expected value = CTR * CPC * (1 - fatigue).
//  4. Selection: a Selector (EpsilonGreedy by default) picks the winner.
//
// The winner is localized to the caller's language by ResolveItem.
//
// # Keyword Matching
//
// Single-word keywords only match on word boundaries, so "hi" never matches
// inside "this" or "machine". Phrases match literally.
//
// # Usage
//
//	engine, err := decision.NewEngine(decision.DefaultConfig(), translator, catalogSvc, logger)
//	if err != nil {
//	    return err
//	}
//	d, err := engine.Decide(ctx, &models.DecisionRequest{Text: "best running shoes?", Language: "en"})
//
// # Determinism
//
// Exploration draws from a seeded, mutex-guarded RandomSource. Tests inject
// their own source or Selector.
package decision
