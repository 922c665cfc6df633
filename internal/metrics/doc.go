// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package metrics provides Prometheus collectors for the decision service.

All collectors are registered on the default registry through promauto and
are exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Decision pipeline:
  - admatch_decisions_total{strategy,outcome}
  - admatch_decision_phase_duration_seconds{phase}
  - admatch_opportunity_intents_total{intent}
  - admatch_decision_candidates (histogram)
  - admatch_explorations_total

Strategy gate:
  - admatch_strategy_fallbacks_total{reason}
  - admatch_strategy_selected_total{strategy,rule}

Collaborators:
  - admatch_catalog_cache_requests_total{kind,result}
  - admatch_catalog_fetch_duration_seconds{source,kind}
  - admatch_translations_total{result}
  - admatch_history_operations_total{backend,operation,result}
  - admatch_decision_log_writes_total{result}
  - admatch_events_published_total{topic,result}
  - circuit_breaker_* {name}

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Record helpers are safe for concurrent use. Label values must stay
low-cardinality; never pass caller or conversation identifiers.
*/
package metrics
