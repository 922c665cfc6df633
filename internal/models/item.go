// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package models

import (
	"strings"
)

// DefaultLanguage is the language every localized field must carry.
const DefaultLanguage = "en"

// Format identifies how a sponsored item is rendered by the client.
type Format string

// Supported item formats. The set is closed; catalog loaders reject anything else.
const (
	FormatText     Format = "text"
	FormatCard     Format = "card"
	FormatBanner   Format = "banner"
	FormatCarousel Format = "carousel"
)

// Formats lists every supported format in declaration order.
var Formats = []Format{FormatText, FormatCard, FormatBanner, FormatCarousel}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ItemStatus is the lifecycle state of an item.
type ItemStatus string

const (
	StatusActive   ItemStatus = "active"
	StatusPaused   ItemStatus = "paused"
	StatusArchived ItemStatus = "archived"
)

// LocalizedText maps a language code to display text.
//
// English is expected to be present and is used as the final fallback.
type LocalizedText map[string]string

// Resolve returns the text for lang and the language actually used.
//
// Lookup order:
//  1. exact code, case-insensitive ("pt-BR")
//  2. primary subtag ("pt")
//  3. English
//
// An empty string and empty language are returned when none of those exist.
func (t LocalizedText) Resolve(lang string) (string, string) {
	if len(t) == 0 {
		return "", ""
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang != "" {
		for code, text := range t {
			if strings.ToLower(code) == lang && text != "" {
				return text, code
			}
		}

		if i := strings.IndexAny(lang, "-_"); i > 0 {
			primary := lang[:i]
			for code, text := range t {
				if strings.ToLower(code) == primary && text != "" {
					return text, code
				}
			}
		}
	}

	if text, ok := t[DefaultLanguage]; ok {
		return text, DefaultLanguage
	}
	return "", ""
}

// English returns the English text, or "" if absent.
func (t LocalizedText) English() string {
	return t[DefaultLanguage]
}

// FormatConfig carries format-specific presentation settings.
type FormatConfig struct {
	ImageURL   string            `json:"image_url,omitempty" bson:"image_url,omitempty" yaml:"image_url,omitempty"`
	Badge      LocalizedText     `json:"badge,omitempty" bson:"badge,omitempty" yaml:"badge,omitempty"`
	Disclaimer LocalizedText     `json:"disclaimer,omitempty" bson:"disclaimer,omitempty" yaml:"disclaimer,omitempty"`
	Options    map[string]string `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
}

// Item is an advertisement creative owned by the catalog.
//
// CPC and BaseCTR are optional performance priors. A nil value means the
// ranker applies its configured default.
type Item struct {
	ID           string        `json:"id" bson:"_id" yaml:"id"`
	AdvertiserID string        `json:"advertiser_id" bson:"advertiser_id" yaml:"advertiser_id"`
	Format       Format        `json:"format" bson:"format" yaml:"format"`
	Title        LocalizedText `json:"title" bson:"title" yaml:"title"`
	Description  LocalizedText `json:"description" bson:"description" yaml:"description"`
	CTA          LocalizedText `json:"cta" bson:"cta" yaml:"cta"`
	URL          string        `json:"url" bson:"url" yaml:"url"`
	Tags         []string      `json:"tags" bson:"tags" yaml:"tags"`
	Status       ItemStatus    `json:"status" bson:"status" yaml:"status"`
	FormatConfig *FormatConfig `json:"format_config,omitempty" bson:"format_config,omitempty" yaml:"format_config,omitempty"`
	CPC          *float64      `json:"cpc,omitempty" bson:"cpc,omitempty" yaml:"cpc,omitempty"`
	BaseCTR      *float64      `json:"base_ctr,omitempty" bson:"base_ctr,omitempty" yaml:"base_ctr,omitempty"`
}

// NormalizeTag is the form tags are compared in: trimmed and lower-cased.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// IsActive reports whether the item may be served.
func (i *Item) IsActive() bool {
	return i.Status == StatusActive
}

// CPCOr returns the item's cost-per-click or def when unset.
func (i *Item) CPCOr(def float64) float64 {
	if i.CPC == nil {
		return def
	}
	return *i.CPC
}

// BaseCTROr returns the item's base click-through rate or def when unset.
func (i *Item) BaseCTROr(def float64) float64 {
	if i.BaseCTR == nil {
		return def
	}
	return *i.BaseCTR
}

// Advertiser is the owner of one or more items.
type Advertiser struct {
	ID   string `json:"id" bson:"_id" yaml:"id"`
	Name string `json:"name" bson:"name" yaml:"name"`
}
