// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package models

import (
	"testing"
)

func TestLocalizedText_Resolve(t *testing.T) {
	t.Parallel()

	text := LocalizedText{
		"en":    "Buy now",
		"es":    "Compra ahora",
		"pt":    "Compre agora",
		"fr-CA": "Achetez maintenant",
	}

	tests := []struct {
		name     string
		lang     string
		wantText string
		wantLang string
	}{
		{"exact match", "es", "Compra ahora", "es"},
		{"case insensitive", "ES", "Compra ahora", "es"},
		{"regional exact", "fr-ca", "Achetez maintenant", "fr-CA"},
		{"primary subtag fallback", "pt-BR", "Compre agora", "pt"},
		{"underscore subtag", "pt_BR", "Compre agora", "pt"},
		{"english fallback", "de", "Buy now", "en"},
		{"empty language", "", "Buy now", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lang := text.Resolve(tt.lang)
			if got != tt.wantText || lang != tt.wantLang {
				t.Errorf("Resolve(%q) = (%q, %q), want (%q, %q)", tt.lang, got, lang, tt.wantText, tt.wantLang)
			}
		})
	}
}

func TestLocalizedText_ResolveMissingEnglish(t *testing.T) {
	t.Parallel()

	text := LocalizedText{"de": "Jetzt kaufen"}
	if got, lang := text.Resolve("fr"); got != "" || lang != "" {
		t.Errorf("Resolve(fr) = (%q, %q), want empty", got, lang)
	}

	var empty LocalizedText
	if got, _ := empty.Resolve("en"); got != "" {
		t.Errorf("nil Resolve = %q, want empty", got)
	}
}

func TestItem_Defaults(t *testing.T) {
	t.Parallel()

	item := &Item{ID: "a", Status: StatusActive}
	if got := item.CPCOr(1.0); got != 1.0 {
		t.Errorf("CPCOr = %v, want 1.0", got)
	}
	if got := item.BaseCTROr(0.02); got != 0.02 {
		t.Errorf("BaseCTROr = %v, want 0.02", got)
	}

	cpc, ctr := 2.5, 0.1
	item.CPC = &cpc
	item.BaseCTR = &ctr
	if got := item.CPCOr(1.0); got != 2.5 {
		t.Errorf("CPCOr = %v, want 2.5", got)
	}
	if got := item.BaseCTROr(0.02); got != 0.1 {
		t.Errorf("BaseCTROr = %v, want 0.1", got)
	}

	if !item.IsActive() {
		t.Error("IsActive() = false, want true")
	}
	item.Status = StatusPaused
	if item.IsActive() {
		t.Error("IsActive() = true for paused item")
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"laptop", "laptop"},
		{" Laptop ", "laptop"},
		{"CODING\t", "coding"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.in); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormat_Valid(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		if !f.Valid() {
			t.Errorf("%q.Valid() = false", f)
		}
	}
	if Format("video").Valid() {
		t.Error(`"video".Valid() = true, want false`)
	}
}

func TestDecision_Shown(t *testing.T) {
	t.Parallel()

	var nilDecision *Decision
	if nilDecision.Shown() {
		t.Error("nil decision reported shown")
	}
	if (&Decision{}).Shown() {
		t.Error("empty decision reported shown")
	}
	if !(&Decision{Item: &ResolvedItem{ID: "x"}}).Shown() {
		t.Error("decision with item not shown")
	}
}
