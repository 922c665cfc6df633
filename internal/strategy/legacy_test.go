// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/admatch/internal/decision"
	"github.com/tomtom215/admatch/internal/models"
)

type mockCatalog struct {
	items       []*models.Item
	advertisers map[string]*models.Advertiser
	err         error
}

func (m *mockCatalog) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	return m.items, m.err
}

func (m *mockCatalog) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	return m.advertisers[id], nil
}

func item(id, advertiser string, format models.Format, tags ...string) *models.Item {
	return &models.Item{
		ID:           id,
		AdvertiserID: advertiser,
		Format:       format,
		Title:        models.LocalizedText{"en": id, "fr": id + "-fr"},
		Tags:         tags,
		Status:       models.StatusActive,
	}
}

func TestLegacyDecider(t *testing.T) {
	t.Parallel()

	cpc := 3.0
	shoes := item("shoes", "adv-1", models.FormatCard, "running", "shoes")
	shoes.CPC = &cpc
	catalog := &mockCatalog{
		items: []*models.Item{
			item("socks", "adv-2", models.FormatText, "running"),
			shoes,
			item("laces", "adv-3", models.FormatBanner, "shoes", "running"),
		},
		advertisers: map[string]*models.Advertiser{"adv-1": {ID: "adv-1", Name: "Sprint"}},
	}
	l := NewLegacyDecider(catalog, decision.DefaultConfig().Ranking)

	t.Run("most tag matches, first on ties", func(t *testing.T) {
		d, err := l.Decide(context.Background(), &models.DecisionRequest{Text: "Running-shoes?!", Language: "fr"})
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if !d.Shown() || d.Item.ID != "shoes" {
			t.Fatalf("Item = %+v, want shoes", d.Item)
		}
		if d.Item.Title != "shoes-fr" || d.Item.AdvertiserName != "Sprint" {
			t.Errorf("resolved = %q/%q, want shoes-fr/Sprint", d.Item.Title, d.Item.AdvertiserName)
		}
		m := d.Meta
		if m.Strategy != models.StrategyV1 || !m.UsedLegacy || m.Outcome != models.OutcomeShown {
			t.Errorf("meta = %+v", m)
		}
		if m.CandidateCount != 3 {
			t.Errorf("CandidateCount = %d, want 3", m.CandidateCount)
		}
		if m.FinalEV != 0.02*3.0 {
			t.Errorf("FinalEV = %v, want %v", m.FinalEV, 0.02*3.0)
		}
		if m.OpportunityScore != 0 || m.Intent != "" {
			t.Errorf("opportunity fields = %v/%q, want zero", m.OpportunityScore, m.Intent)
		}
	})

	t.Run("no opportunity gating", func(t *testing.T) {
		d, err := l.Decide(context.Background(), &models.DecisionRequest{Text: "hi running"})
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if !d.Shown() || d.Item.ID != "socks" {
			t.Errorf("Item = %+v, want socks", d.Item)
		}
	})

	t.Run("format allow list", func(t *testing.T) {
		d, err := l.Decide(context.Background(), &models.DecisionRequest{
			Text:    "running shoes",
			Formats: []models.Format{models.FormatBanner},
		})
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if !d.Shown() || d.Item.ID != "laces" {
			t.Errorf("Item = %+v, want laces", d.Item)
		}
	})

	t.Run("substring is not a tag match", func(t *testing.T) {
		d, err := l.Decide(context.Background(), &models.DecisionRequest{Text: "overrunning shoestring"})
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if d.Shown() || d.Meta.Outcome != models.OutcomeNoCandidates {
			t.Errorf("Decide() = %+v, want no_candidates", d.Meta)
		}
	})
}

func TestLegacyDecider_NormalizesCatalogTags(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{items: []*models.Item{item("laptop-pro", "adv-1", models.FormatCard, " Laptop ", "CODING\t")}}
	l := NewLegacyDecider(catalog, decision.DefaultConfig().Ranking)

	d, err := l.Decide(context.Background(), &models.DecisionRequest{Text: "which laptop for coding"})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if !d.Shown() || d.Item.ID != "laptop-pro" {
		t.Fatalf("Decide() = %+v, want laptop-pro", d.Meta)
	}
	if d.Meta.CandidateCount != 1 {
		t.Errorf("CandidateCount = %d, want 1", d.Meta.CandidateCount)
	}
}

func TestLegacyDecider_CatalogError(t *testing.T) {
	t.Parallel()

	boom := errors.New("down")
	l := NewLegacyDecider(&mockCatalog{err: boom}, decision.DefaultConfig().Ranking)
	if _, err := l.Decide(context.Background(), &models.DecisionRequest{Text: "x"}); !errors.Is(err, boom) {
		t.Errorf("Decide() error = %v, want %v", err, boom)
	}
}
