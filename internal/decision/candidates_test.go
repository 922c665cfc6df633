// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/admatch/internal/models"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"drops short tokens", "I want a new laptop", []string{"want", "new", "laptop"}},
		{"trims punctuation", "laptops, phones! (tablets)?", []string{"laptops", "phones", "tablets"}},
		{"dedupes", "Shoes shoes SHOES", []string{"shoes"}},
		{"keeps inner punctuation", "e-bike wi-fi", []string{"e-bike", "wi-fi"}},
		{"runes not bytes", "ñu año", []string{"año"}},
		{"all short", "hi to me", []string{}},
		{"length checked after trimming", "is it? ok!! yes...", []string{"yes"}},
		{"punctuation only", "?? !!! ...", []string{}},
		{"dedupes after trimming", "laptop? Laptop! laptop", []string{"laptop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text, 3)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCandidateGenerator_TagDominatesText(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{items: []*models.Item{
		newItem("text-only", "adv-1", []string{"travel"}, "Laptop sleeve", "Protects your laptop"),
		newItem("tagged", "adv-2", []string{"laptop", "work"}, "Laptop Pro", "A laptop for work"),
		newItem("none", "adv-3", []string{"garden"}, "Garden hose", "Waters plants"),
	}}
	gen := NewCandidateGenerator(passthrough{}, catalog, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "I want to buy a new laptop for work", "en", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Generate() = %d candidates, want 2", len(got))
	}

	if got[0].Item.ID != "tagged" || got[0].Source != models.MatchSourceTag || got[0].Score != 2 {
		t.Errorf("got[0] = %s/%s/%v, want tagged/tag/2", got[0].Item.ID, got[0].Source, got[0].Score)
	}
	// "laptop" twice in title+description, "want"/"new"/"buy" absent.
	if got[1].Item.ID != "text-only" || got[1].Source != models.MatchSourceText || got[1].Score != 1.0 {
		t.Errorf("got[1] = %s/%s/%v, want text-only/text/1", got[1].Item.ID, got[1].Source, got[1].Score)
	}

	for _, c := range got {
		if c.Item.ID == "tagged" && c.Source == models.MatchSourceText {
			t.Error("tag matched item also carried as text candidate")
		}
	}
}

func TestCandidateGenerator_NormalizesCatalogTags(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{items: []*models.Item{
		newItem("padded", "adv-1", []string{" Laptop ", "CODING\t"}, "Pro 14", "Fast machine"),
	}}
	gen := NewCandidateGenerator(passthrough{}, catalog, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "which laptop for coding", "en", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 1 || got[0].Source != models.MatchSourceTag || got[0].Score != 2 {
		t.Fatalf("Generate() = %+v, want one tag match scoring 2", got)
	}
}

func TestCandidateGenerator_StableTies(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{items: []*models.Item{
		newItem("a", "adv", []string{"shoes"}, "", ""),
		newItem("b", "adv", []string{"shoes"}, "", ""),
		newItem("c", "adv", []string{"running", "shoes"}, "", ""),
		newItem("d", "adv", []string{"shoes"}, "", ""),
	}}
	gen := NewCandidateGenerator(passthrough{}, catalog, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "best running shoes", "en", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var ids []string
	for _, c := range got {
		ids = append(ids, c.Item.ID)
	}
	if want := []string{"c", "a", "b", "d"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestCandidateGenerator_FormatFilter(t *testing.T) {
	t.Parallel()

	banner := newItem("banner", "adv", []string{"shoes"}, "", "")
	banner.Format = models.FormatBanner
	card := newItem("card", "adv", []string{"shoes"}, "", "")

	gen := NewCandidateGenerator(passthrough{}, &mockCatalog{items: []*models.Item{banner, card}}, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "running shoes", "en", []models.Format{models.FormatBanner})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 1 || got[0].Item.ID != "banner" {
		t.Errorf("Generate() with banner filter = %v, want [banner]", got)
	}
}

func TestCandidateGenerator_TranslatesFirst(t *testing.T) {
	t.Parallel()

	translator := &mockTranslator{translations: map[string]string{
		"quiero zapatillas para correr": "i want shoes for running",
	}}
	catalog := &mockCatalog{items: []*models.Item{
		newItem("shoe", "adv", []string{"shoes"}, "", ""),
	}}
	gen := NewCandidateGenerator(translator, catalog, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "quiero zapatillas para correr", "es", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if translator.lastLanguage != "es" {
		t.Errorf("translator language = %q, want es", translator.lastLanguage)
	}
	if len(got) != 1 {
		t.Errorf("Generate() = %d candidates, want 1", len(got))
	}
}

func TestCandidateGenerator_NoTokensSkipsCatalog(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{items: []*models.Item{newItem("a", "adv", []string{"ok"}, "", "")}}
	gen := NewCandidateGenerator(passthrough{}, catalog, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "ok go", "en", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Generate() = %d candidates, want 0", len(got))
	}
	if n := catalog.itemCalls.Load(); n != 0 {
		t.Errorf("catalog fetched %d times, want 0", n)
	}
}

func TestCandidateGenerator_CatalogError(t *testing.T) {
	t.Parallel()

	boom := errors.New("mongo unavailable")
	gen := NewCandidateGenerator(passthrough{}, &mockCatalog{itemsErr: boom}, DefaultConfig().Candidates)

	_, err := gen.Generate(context.Background(), "running shoes", "en", nil)
	if !errors.Is(err, boom) {
		t.Errorf("Generate() error = %v, want wrapped %v", err, boom)
	}
}

func TestCandidateGenerator_TextScoreCountsOccurrences(t *testing.T) {
	t.Parallel()

	item := newItem("x", "adv", nil, "Coffee beans", "Fresh coffee, roasted coffee daily")
	gen := NewCandidateGenerator(passthrough{}, &mockCatalog{items: []*models.Item{item}}, DefaultConfig().Candidates)

	got, err := gen.Generate(context.Background(), "coffee please", "en", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 1 || got[0].Score != 1.5 {
		t.Fatalf("Generate() = %+v, want one candidate scored 1.5", got)
	}
}
