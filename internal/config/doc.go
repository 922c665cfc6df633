// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package config provides centralized configuration management for AdMatch.

Configuration is layered with Koanf v2:

 1. Defaults from defaultConfig
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/admatch/config.yaml or /etc/admatch/config.yml
 3. Environment variables, mapped explicitly (see envMappings)

LoadDotEnv reads a .env file into the process environment before Load runs,
without overriding variables that are already set.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

API:
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQS, RATE_LIMIT_WINDOW (default: 600 per minute)
  - DISABLE_RATE_LIMIT

Strategy gate (hot-reloaded from the config file):
  - STRATEGY_KILL_SWITCH: force v1 for every caller
  - STRATEGY_ALLOW_LIST: comma-separated caller ids that always get v2
  - STRATEGY_ROLLOUT_PERCENT: 0-100
  - STRATEGY_V2_DEFAULT (default: true)
  - STRATEGY_TIMEOUT (default: 200ms)
  - STRATEGY_DETACH_ON_TIMEOUT

Catalog:
  - CATALOG_SOURCE: file, mongo or memory (default: file)
  - CATALOG_FILE, MONGO_URI, MONGO_DATABASE
  - CATALOG_ITEM_TTL (60s), CATALOG_ADVERTISER_TTL (5m), CATALOG_WARM_INTERVAL

Translation:
  - TRANSLATE_ENABLED, OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL

Exposure history:
  - HISTORY_BACKEND: memory, redis or badger
  - REDIS_URL, HISTORY_BADGER_DIR, HISTORY_WINDOW (10), HISTORY_TTL (24h)

Decision log:
  - DECISION_LOG_BACKEND: memory or duckdb
  - DUCKDB_PATH, DECISION_LOG_RETENTION_DAYS (30)

Decision events:
  - NATS_ENABLED, NATS_URL, EVENTS_TOPIC (admatch.decisions)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Pipeline constants live under decision.* (DECISION_LOW_THRESHOLD,
DECISION_EPSILON, ...). Extra opportunity keywords can be supplied as
comma-separated lists in DECISION_KEYWORDS_SENSITIVE,
DECISION_KEYWORDS_CHITCHAT and DECISION_KEYWORDS_HIGH_INTENT.

# Hot Reload

WatchConfigFile invokes a callback when the YAML file changes. The server
uses it to reload the strategy section only; other sections require a
restart.
*/
package config
