// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"maps"

	"github.com/tomtom215/admatch/internal/models"
)

// ResolveItem builds the caller-facing payload for item in language.
// advertiser may be nil, leaving the advertiser name empty.
func ResolveItem(item *models.Item, language string, advertiser *models.Advertiser) *models.ResolvedItem {
	title, used := item.Title.Resolve(language)
	description, _ := item.Description.Resolve(language)
	cta, _ := item.CTA.Resolve(language)

	resolved := &models.ResolvedItem{
		ID:           item.ID,
		AdvertiserID: item.AdvertiserID,
		Format:       item.Format,
		Title:        title,
		Description:  description,
		CTA:          cta,
		URL:          item.URL,
		Language:     used,
	}
	if advertiser != nil {
		resolved.AdvertiserName = advertiser.Name
	}

	if fc := item.FormatConfig; fc != nil {
		badge, _ := fc.Badge.Resolve(language)
		disclaimer, _ := fc.Disclaimer.Resolve(language)
		resolved.FormatConfig = &models.ResolvedFormatConfig{
			ImageURL:   fc.ImageURL,
			Badge:      badge,
			Disclaimer: disclaimer,
			Options:    maps.Clone(fc.Options),
		}
	}
	return resolved
}
