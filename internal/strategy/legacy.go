// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/tomtom215/admatch/internal/decision"
	"github.com/tomtom215/admatch/internal/models"
)

// LegacyDecider is the v1 exact-tag decider. It has no opportunity gating:
// the item with the most tags present in the message wins, first in
// catalog order on ties.
type LegacyDecider struct {
	catalog decision.Catalog
	priors  decision.RankingConfig
}

// NewLegacyDecider creates the v1 decider. priors supplies the default CTR
// and CPC used to report the expected value.
func NewLegacyDecider(catalog decision.Catalog, priors decision.RankingConfig) *LegacyDecider {
	return &LegacyDecider{catalog: catalog, priors: priors}
}

// Decide implements Decider.
func (l *LegacyDecider) Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error) {
	start := time.Now()

	d := &models.Decision{
		Meta: models.DecisionMetadata{
			DecisionID: uuid.NewString(),
			Strategy:   models.StrategyV1,
			UsedLegacy: true,
			Outcome:    models.OutcomeNoCandidates,
		},
	}

	items, err := l.catalog.ActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active items: %w", err)
	}

	words := wordSet(req.Text)
	var allowed map[models.Format]struct{}
	if len(req.Formats) > 0 {
		allowed = make(map[models.Format]struct{}, len(req.Formats))
		for _, f := range req.Formats {
			allowed[f] = struct{}{}
		}
	}

	var best *models.Item
	bestCount := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[item.Format]; !ok {
				continue
			}
		}

		n := 0
		for _, tag := range item.Tags {
			if _, ok := words[models.NormalizeTag(tag)]; ok {
				n++
			}
		}
		if n == 0 {
			continue
		}
		d.Meta.CandidateCount++
		if n > bestCount {
			best, bestCount = item, n
		}
	}

	if best != nil {
		advertiser, err := l.catalog.Advertiser(ctx, best.AdvertiserID)
		if err != nil {
			return nil, fmt.Errorf("lookup advertiser %s: %w", best.AdvertiserID, err)
		}
		base := best.BaseCTROr(l.priors.DefaultCTR) * best.CPCOr(l.priors.DefaultCPC)

		d.Item = decision.ResolveItem(best, req.Language, advertiser)
		d.Meta.Outcome = models.OutcomeShown
		d.Meta.FinalEV = base
		d.Meta.Breakdown.BaseScore = base
	}

	d.Meta.Timings.TotalMS = decision.Milliseconds(time.Since(start))
	return d, nil
}

// wordSet splits lower-cased text on every rune that is not a letter or
// digit.
func wordSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
