// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/admatch/internal/logging"
	"github.com/tomtom215/admatch/internal/models"
)

// CatalogItems handles GET /api/v1/catalog/items.
func (h *Handler) CatalogItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := h.catalog.ActiveItems(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeCatalog, "failed to load catalog", err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	respondSuccess(w, map[string]interface{}{
		"items": items,
		"count": len(items),
	}, start)
}

// CatalogStats handles GET /api/v1/catalog/stats.
func (h *Handler) CatalogStats(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, h.catalog.Stats(), time.Time{})
}

// CatalogInvalidate handles POST /api/v1/catalog/invalidate.
func (h *Handler) CatalogInvalidate(w http.ResponseWriter, r *http.Request) {
	h.catalog.Invalidate()
	logging.Ctx(r.Context()).Info().Msg("Catalog cache invalidated via API")
	respondSuccess(w, map[string]interface{}{"invalidated": true}, time.Time{})
}

// StrategySettings handles GET /api/v1/strategy.
func (h *Handler) StrategySettings(w http.ResponseWriter, r *http.Request) {
	if h.settings == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "strategy settings are not exposed", nil)
		return
	}
	s := h.settings.Load()
	respondSuccess(w, map[string]interface{}{
		"kill_switch":       s.KillSwitch,
		"allow_list":        s.AllowList,
		"rollout_percent":   s.RolloutPercent,
		"v2_default":        s.V2Default,
		"timeout_ms":        s.TimeoutMS(),
		"detach_on_timeout": s.DetachOnTimeout,
	}, time.Time{})
}
