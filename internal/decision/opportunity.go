// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"strings"

	"github.com/tomtom215/admatch/internal/cache"
	"github.com/tomtom215/admatch/internal/models"
)

// Fixed scores per intent.
const (
	sensitiveScore  = 0.0
	chitchatScore   = 0.1
	lowIntentScore  = 0.2
	mediumScore     = 0.5
	highIntentScore = 0.8
)

// OpportunityScorer classifies a message into an intent and score.
// It is immutable after construction and safe for concurrent use.
type OpportunityScorer struct {
	sensitive       *cache.KeywordMatcher
	chitchat        *cache.KeywordMatcher
	highIntent      *cache.KeywordMatcher
	shortTextTokens int
}

// NewOpportunityScorer builds the keyword automatons from the built-in
// lists plus the configured extras.
func NewOpportunityScorer(keywords KeywordConfig, shortTextTokens int) *OpportunityScorer {
	return &OpportunityScorer{
		sensitive:       cache.NewKeywordMatcher(mergeKeywords(sensitiveKeywords, keywords.Sensitive)),
		chitchat:        cache.NewKeywordMatcher(mergeKeywords(chitchatKeywords, keywords.Chitchat)),
		highIntent:      cache.NewKeywordMatcher(mergeKeywords(highIntentKeywords, keywords.HighIntent)),
		shortTextTokens: shortTextTokens,
	}
}

// Score classifies text. The first matching rule wins:
// sensitive, chitchat, high intent, short text, then medium commercial.
//
// language is accepted for interface stability; keyword lists are
// multilingual so it does not change the result.
func (s *OpportunityScorer) Score(text, _ string) models.Opportunity {
	lowered := strings.ToLower(text)

	switch {
	case s.sensitive.ContainsWord(lowered):
		return models.Opportunity{Score: sensitiveScore, Intent: models.IntentSensitive}
	case s.chitchat.ContainsWord(lowered):
		return models.Opportunity{Score: chitchatScore, Intent: models.IntentChitchat}
	case s.highIntent.ContainsWord(lowered):
		return models.Opportunity{Score: highIntentScore, Intent: models.IntentHighCommercial}
	case len(strings.Fields(lowered)) < s.shortTextTokens:
		return models.Opportunity{Score: lowIntentScore, Intent: models.IntentLowIntent}
	default:
		return models.Opportunity{Score: mediumScore, Intent: models.IntentMediumCommercial}
	}
}

// Matches returns the keywords of each category found in text. Used for
// diagnostics; Score does not depend on it.
func (s *OpportunityScorer) Matches(text string) map[models.Intent][]string {
	out := make(map[models.Intent][]string, 3)
	if m := s.sensitive.MatchWords(text); len(m) > 0 {
		out[models.IntentSensitive] = m
	}
	if m := s.chitchat.MatchWords(text); len(m) > 0 {
		out[models.IntentChitchat] = m
	}
	if m := s.highIntent.MatchWords(text); len(m) > 0 {
		out[models.IntentHighCommercial] = m
	}
	return out
}
