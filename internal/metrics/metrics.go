// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decision Pipeline Metrics
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_decisions_total",
			Help: "Total number of decisions by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	DecisionPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admatch_decision_phase_duration_seconds",
			Help:    "Duration of each decision pipeline phase in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1},
		},
		[]string{"phase"}, // opportunity, candidates, ranking, selection, total
	)

	OpportunityIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_opportunity_intents_total",
			Help: "Total number of scored messages by intent",
		},
		[]string{"intent"},
	)

	DecisionCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admatch_decision_candidates",
			Help:    "Number of candidates generated per decision",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	Explorations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admatch_explorations_total",
			Help: "Total number of selections taken from the exploration branch",
		},
	)

	// Strategy Gate Metrics
	StrategyFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_strategy_fallbacks_total",
			Help: "Total number of v2 to v1 fallbacks",
		},
		[]string{"reason"}, // timeout, error
	)

	StrategySelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_strategy_selected_total",
			Help: "Total number of strategy selections by the rule that decided",
		},
		[]string{"strategy", "rule"}, // rule: kill_switch, allow_list, rollout, default
	)

	// Catalog Metrics
	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_catalog_cache_requests_total",
			Help: "Catalog cache lookups by kind and result",
		},
		[]string{"kind", "result"}, // kind: items, advertiser; result: hit, miss
	)

	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admatch_catalog_fetch_duration_seconds",
			Help:    "Duration of catalog source fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "kind"},
	)

	CatalogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_catalog_fetch_errors_total",
			Help: "Total number of failed catalog source fetches",
		},
		[]string{"source", "kind"},
	)

	CatalogActiveItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "admatch_catalog_active_items",
			Help: "Number of active items in the last catalog snapshot",
		},
	)

	// Translation Metrics
	Translations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_translations_total",
			Help: "Translation requests by result",
		},
		[]string{"result"}, // identity, translated, cached, error, rejected, rate_limited
	)

	// Exposure History Metrics
	HistoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_history_operations_total",
			Help: "Exposure history operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"},
	)

	// Decision Log Metrics
	DecisionLogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_decision_log_writes_total",
			Help: "Decision log writes by result",
		},
		[]string{"result"}, // success, error, dropped
	)

	// Event Publishing Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admatch_events_published_total",
			Help: "Decision events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDecision counts a finished decision.
func RecordDecision(strategy, outcome string) {
	DecisionsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordDecisionPhase records the duration of one pipeline phase.
func RecordDecisionPhase(phase string, duration time.Duration) {
	DecisionPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordOpportunity counts a scored message by intent.
func RecordOpportunity(intent string) {
	OpportunityIntents.WithLabelValues(intent).Inc()
}

// RecordCandidates records the candidate set size of a decision.
func RecordCandidates(n int) {
	DecisionCandidates.Observe(float64(n))
}

// RecordExploration counts a selection made by the exploration branch.
func RecordExploration() {
	Explorations.Inc()
}

// RecordStrategyFallback counts a v2 to v1 fallback.
func RecordStrategyFallback(reason string) {
	StrategyFallbacks.WithLabelValues(reason).Inc()
}

// RecordStrategySelection counts which rule picked the strategy.
func RecordStrategySelection(strategy, rule string) {
	StrategySelected.WithLabelValues(strategy, rule).Inc()
}

// RecordCatalogCache counts a catalog cache lookup.
func RecordCatalogCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CatalogCacheRequests.WithLabelValues(kind, result).Inc()
}

// RecordCatalogFetch records a catalog source fetch.
func RecordCatalogFetch(source, kind string, duration time.Duration, err error) {
	CatalogFetchDuration.WithLabelValues(source, kind).Observe(duration.Seconds())
	if err != nil {
		CatalogFetchErrors.WithLabelValues(source, kind).Inc()
	}
}

// RecordTranslation counts a translation request by result.
func RecordTranslation(result string) {
	Translations.WithLabelValues(result).Inc()
}

// RecordHistoryOperation counts an exposure history operation.
func RecordHistoryOperation(backend, operation string, err error) {
	HistoryOperations.WithLabelValues(backend, operation, resultLabel(err)).Inc()
}

// RecordDecisionLogWrite counts a decision log write. result is one of
// success, error or dropped.
func RecordDecisionLogWrite(result string) {
	DecisionLogWrites.WithLabelValues(result).Inc()
}

// RecordEventPublish counts a published decision event.
func RecordEventPublish(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
