// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Command server runs the AdMatch decision API.

Startup order:

 1. .env and configuration (koanf: defaults, YAML file, environment)
 2. Logging (zerolog)
 3. Decision events (NATS JetStream via Watermill), if events.enabled
 4. Catalog source and TTL cache (file, MongoDB or memory)
 5. Translator (OpenAI), exposure history (memory, Redis or Badger),
    decision log (memory or DuckDB)
 6. v2 engine, v1 legacy decider and strategy gate
 7. Supervisor tree: catalog warmer, decision log retention, strategy
    watcher, HTTP server

# Configuration

The config file is found via CONFIG_PATH or the default locations
(see config.DefaultConfigPaths). Environment variables override it:

	HTTP_PORT=8080
	CATALOG_SOURCE=mongo MONGO_URI=mongodb://mongo:27017
	HISTORY_BACKEND=redis REDIS_URL=redis://redis:6379/0
	DECISION_LOG_BACKEND=duckdb DUCKDB_PATH=/data/decisions.duckdb
	NATS_ENABLED=true NATS_URL=nats://nats:4222
	TRANSLATE_ENABLED=true OPENAI_API_KEY=...

Changes to the strategy section of the config file (kill switch, allow
list, rollout percent, v2 default, timeout) apply without a restart.

# Signals

SIGINT and SIGTERM stop the supervisor tree. The HTTP server drains for
server.shutdown_timeout, then the event emitter and decision log flush
their queues before the backends are closed.
*/
package main
