// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/admatch/internal/models"
)

// ErrNotFound is returned by sources for unknown advertisers.
var ErrNotFound = errors.New("not found")

// ErrInvalidItem is returned (wrapped) by ValidateItem.
var ErrInvalidItem = errors.New("invalid item")

// Source is a backing store for items and advertisers.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// ActiveItems returns every item with status active, in a stable order.
	ActiveItems(ctx context.Context) ([]*models.Item, error)

	// Advertiser returns the advertiser or ErrNotFound.
	Advertiser(ctx context.Context, id string) (*models.Advertiser, error)

	// Ping checks the source is reachable.
	Ping(ctx context.Context) error
}

// ValidateItem checks the fields the pipeline relies on.
func ValidateItem(item *models.Item) error {
	switch {
	case item == nil:
		return fmt.Errorf("%w: nil item", ErrInvalidItem)
	case item.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	case item.AdvertiserID == "":
		return fmt.Errorf("%w: item %s: missing advertiser_id", ErrInvalidItem, item.ID)
	case !item.Format.Valid():
		return fmt.Errorf("%w: item %s: unknown format %q", ErrInvalidItem, item.ID, item.Format)
	case item.Title.English() == "":
		return fmt.Errorf("%w: item %s: title has no English text", ErrInvalidItem, item.ID)
	}

	switch item.Status {
	case models.StatusActive, models.StatusPaused, models.StatusArchived:
	default:
		return fmt.Errorf("%w: item %s: unknown status %q", ErrInvalidItem, item.ID, item.Status)
	}

	if item.CPC != nil && *item.CPC < 0 {
		return fmt.Errorf("%w: item %s: negative cpc", ErrInvalidItem, item.ID)
	}
	if item.BaseCTR != nil && (*item.BaseCTR < 0 || *item.BaseCTR > 1) {
		return fmt.Errorf("%w: item %s: base_ctr outside [0,1]", ErrInvalidItem, item.ID)
	}
	return nil
}

func filterActive(items []*models.Item) []*models.Item {
	out := make([]*models.Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.IsActive() {
			out = append(out, it)
		}
	}
	return out
}
