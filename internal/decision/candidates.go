// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/admatch/internal/models"
)

// Translator converts text to English. Implementations must not fail: on
// any error they return the input unchanged.
type Translator interface {
	ToEnglish(ctx context.Context, text, sourceLanguage string) string
}

// ItemSource provides the snapshot of currently active items.
type ItemSource interface {
	ActiveItems(ctx context.Context) ([]*models.Item, error)
}

// CandidateGenerator finds items topically relevant to a message.
type CandidateGenerator struct {
	translator Translator
	items      ItemSource
	minLen     int
	textWeight float64
}

// NewCandidateGenerator creates a generator.
func NewCandidateGenerator(translator Translator, items ItemSource, cfg CandidateConfig) *CandidateGenerator {
	return &CandidateGenerator{
		translator: translator,
		items:      items,
		minLen:     cfg.MinTokenLength,
		textWeight: cfg.TextMatchWeight,
	}
}

// Generate returns candidates sorted by score descending, ties in catalog
// order. A tag match always wins over a text match for the same item.
// Only catalog failures are returned as errors.
func (g *CandidateGenerator) Generate(ctx context.Context, text, language string, formats []models.Format) ([]models.ScoredCandidate, error) {
	english := g.translator.ToEnglish(ctx, text, language)

	tokens := Tokenize(english, g.minLen)
	if len(tokens) == 0 {
		return nil, nil
	}

	items, err := g.items.ActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active items: %w", err)
	}

	allowed := formatSet(formats)
	candidates := make([]models.ScoredCandidate, 0)

	for _, item := range items {
		if item == nil {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[item.Format]; !ok {
				continue
			}
		}

		if score := tagScore(tokens, item.Tags); score > 0 {
			candidates = append(candidates, models.ScoredCandidate{
				Item:   item,
				Score:  score,
				Source: models.MatchSourceTag,
			})
			continue
		}

		if score := g.textScore(tokens, item); score > 0 {
			candidates = append(candidates, models.ScoredCandidate{
				Item:   item,
				Score:  score,
				Source: models.MatchSourceText,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// tagScore counts tokens equal to one of the item's tags.
func tagScore(tokens, tags []string) float64 {
	if len(tags) == 0 {
		return 0
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[models.NormalizeTag(t)] = struct{}{}
	}

	n := 0
	for _, tok := range tokens {
		if _, ok := tagSet[tok]; ok {
			n++
		}
	}
	return float64(n)
}

// textScore counts substring occurrences of each token in the English
// title and description.
func (g *CandidateGenerator) textScore(tokens []string, item *models.Item) float64 {
	haystack := strings.ToLower(item.Title.English() + " " + item.Description.English())

	n := 0
	for _, tok := range tokens {
		n += strings.Count(haystack, tok)
	}
	return float64(n) * g.textWeight
}

func formatSet(formats []models.Format) map[models.Format]struct{} {
	if len(formats) == 0 {
		return nil
	}
	set := make(map[models.Format]struct{}, len(formats))
	for _, f := range formats {
		set[f] = struct{}{}
	}
	return set
}
