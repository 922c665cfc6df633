// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"sort"

	"github.com/tomtom215/admatch/internal/models"
)

// Ranker prices candidates by expected value with a fatigue penalty.
type Ranker struct {
	cfg RankingConfig
}

// NewRanker creates a ranker.
func NewRanker(cfg RankingConfig) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank returns results sorted by expected value descending, ties in input
// order.
//
// The same-item penalty takes precedence over the same-advertiser penalty;
// they never stack.
func (r *Ranker) Rank(candidates []models.ScoredCandidate, recentItemIDs, recentAdvertiserIDs []string) []models.RankingResult {
	recentItems := idSet(recentItemIDs)
	recentAdvertisers := idSet(recentAdvertiserIDs)

	results := make([]models.RankingResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Item == nil {
			continue
		}

		ctr := c.Item.BaseCTROr(r.cfg.DefaultCTR)
		cpc := c.Item.CPCOr(r.cfg.DefaultCPC)
		penalty := r.fatigue(c.Item, recentItems, recentAdvertisers)

		results = append(results, models.RankingResult{
			Item:           c.Item,
			MatchScore:     c.Score,
			MatchSource:    c.Source,
			BaseCTR:        ctr,
			CPC:            cpc,
			FatiguePenalty: penalty,
			FormatPenalty:  0,
			ExpectedValue:  ctr * cpc * (1 - penalty),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExpectedValue > results[j].ExpectedValue
	})
	return results
}

func (r *Ranker) fatigue(item *models.Item, recentItems, recentAdvertisers map[string]struct{}) float64 {
	if _, ok := recentItems[item.ID]; ok {
		return r.cfg.SameItemPenalty
	}
	if _, ok := recentAdvertisers[item.AdvertiserID]; ok {
		return r.cfg.SameAdvertiserPenalty
	}
	return 0
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
