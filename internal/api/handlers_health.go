// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/admatch/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Always returns 200 OK while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Time{})
}

type checkResult struct {
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 503 when any critical check fails. Checks run concurrently with
// a shared timeout.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	results := make(map[string]checkResult, len(h.checks))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range h.checks {
		wg.Add(1)
		go func(c ReadinessCheck) {
			defer wg.Done()
			res := checkResult{Healthy: true, Critical: c.Critical}
			if err := c.Check(ctx); err != nil {
				res.Healthy = false
				res.Error = err.Error()
			}
			mu.Lock()
			results[c.Name] = res
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	ready, degraded := true, false
	for _, res := range results {
		if res.Healthy {
			continue
		}
		if res.Critical {
			ready = false
		} else {
			degraded = true
		}
	}

	status := "ready"
	code := http.StatusOK
	switch {
	case !ready:
		status, code = "not_ready", http.StatusServiceUnavailable
	case degraded:
		status = "degraded"
	}

	respondJSON(w, code, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"ready_to_serve": ready,
			"checks":         results,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
