// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package translate turns non-English messages into English before candidate
matching.

Translation is best effort. Every implementation returns the original text
when it cannot translate, so callers never handle an error:

	tr := translate.NewOpenAITranslator(cfg, logger)
	english := tr.ToEnglish(ctx, "busco un portátil", "es")

# Implementations

  - Identity: returns the input unchanged
  - OpenAITranslator: chat completion at temperature 0, protected by a
    circuit breaker and a token bucket rate limiter, with results cached
    per (language, text)

Messages whose language is empty or English are never sent upstream.
*/
package translate
