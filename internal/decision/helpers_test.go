// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/admatch/internal/models"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	items         []*models.Item
	advertisers   map[string]*models.Advertiser
	itemsErr      error
	advertiserErr error
	itemCalls     atomic.Int32
}

func (m *mockCatalog) ActiveItems(ctx context.Context) ([]*models.Item, error) {
	m.itemCalls.Add(1)
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

func (m *mockCatalog) Advertiser(ctx context.Context, id string) (*models.Advertiser, error) {
	if m.advertiserErr != nil {
		return nil, m.advertiserErr
	}
	return m.advertisers[id], nil
}

// mockTranslator returns canned translations and records the last call.
type mockTranslator struct {
	translations map[string]string
	lastLanguage string
}

func (m *mockTranslator) ToEnglish(ctx context.Context, text, lang string) string {
	m.lastLanguage = lang
	if out, ok := m.translations[text]; ok {
		return out
	}
	return text
}

// fixedRand returns preset values.
type fixedRand struct {
	float float64
	intn  func(n int) int
	calls int
}

func (f *fixedRand) Float64() float64 {
	f.calls++
	return f.float
}

func (f *fixedRand) Intn(n int) int {
	if f.intn == nil {
		return 0
	}
	return f.intn(n)
}

func ptr(v float64) *float64 { return &v }

func newItem(id, advertiser string, tags []string, title, desc string) *models.Item {
	return &models.Item{
		ID:           id,
		AdvertiserID: advertiser,
		Format:       models.FormatCard,
		Title:        models.LocalizedText{"en": title},
		Description:  models.LocalizedText{"en": desc},
		CTA:          models.LocalizedText{"en": "Learn more"},
		URL:          "https://example.com/" + id,
		Tags:         tags,
		Status:       models.StatusActive,
	}
}
