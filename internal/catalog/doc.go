// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package catalog serves sponsored items and advertisers to the decision
// pipeline.
//
// Sources:
//   - MemorySource: in-process, for tests and seeding
//   - FileSource: YAML file parsed with gopkg.in/yaml.v3
//   - MongoStore: items and advertisers collections in MongoDB
//
// Service wraps a Source with two TTL caches (active items 60s,
// advertisers 5m) and exposes explicit invalidation.
package catalog
