// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(DecisionsTotal.WithLabelValues("v2", "shown"))
	RecordDecision("v2", "shown")
	RecordDecision("v2", "shown")

	if got := testutil.ToFloat64(DecisionsTotal.WithLabelValues("v2", "shown")); got != before+2 {
		t.Errorf("admatch_decisions_total{v2,shown} = %v, want %v", got, before+2)
	}
}

func TestRecordDecisionPhase(t *testing.T) {
	RecordDecisionPhase("ranking", 3*time.Millisecond)

	m := &dto.Metric{}
	h, ok := DecisionPhaseDuration.WithLabelValues("ranking").(interface{ Write(*dto.Metric) error })
	if !ok {
		t.Fatal("histogram does not implement Write")
	}
	if err := h.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("sample count = 0, want > 0")
	}
}

func TestRecordCatalogCache(t *testing.T) {
	hits := testutil.ToFloat64(CatalogCacheRequests.WithLabelValues("items", "hit"))
	misses := testutil.ToFloat64(CatalogCacheRequests.WithLabelValues("items", "miss"))

	RecordCatalogCache("items", true)
	RecordCatalogCache("items", false)
	RecordCatalogCache("items", false)

	if got := testutil.ToFloat64(CatalogCacheRequests.WithLabelValues("items", "hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CatalogCacheRequests.WithLabelValues("items", "miss")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestResultLabels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "success"},
		{"error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(HistoryOperations.WithLabelValues("memory", "record", tt.want))
			RecordHistoryOperation("memory", "record", tt.err)
			if got := testutil.ToFloat64(HistoryOperations.WithLabelValues("memory", "record", tt.want)); got != before+1 {
				t.Errorf("history %s = %v, want %v", tt.want, got, before+1)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}
}

func TestRecordCatalogFetchError(t *testing.T) {
	before := testutil.ToFloat64(CatalogFetchErrors.WithLabelValues("mongo", "items"))
	RecordCatalogFetch("mongo", "items", time.Millisecond, errors.New("timeout"))
	RecordCatalogFetch("mongo", "items", time.Millisecond, nil)

	if got := testutil.ToFloat64(CatalogFetchErrors.WithLabelValues("mongo", "items")); got != before+1 {
		t.Errorf("fetch errors = %v, want %v", got, before+1)
	}
}
