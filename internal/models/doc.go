// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package models defines the data structures shared across AdMatch.

Catalog models:

  - Item: an advertisement creative with localized text, tags and optional
    performance priors (CPC, BaseCTR)
  - Advertiser: the owner of items
  - LocalizedText: language code to text map with English fallback

Pipeline models (value objects, created and consumed within one decision):

  - Opportunity: intent category and score for a message
  - ScoredCandidate: an item with a match score and match source
  - RankingResult: a candidate priced by expected value
  - Decision / DecisionMetadata: the caller-facing result and its explanation

API models:

  - APIResponse, Metadata, APIError: the standard response envelope
  - DecisionRequest, OpportunityRequest: validated request bodies
*/
package models
