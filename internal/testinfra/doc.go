// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// It uses testcontainers-go to start the real backends AdMatch talks to:
//
//   - MongoDB, the catalog store (NewMongoContainer)
//   - Redis, the exposure history store (NewRedisContainer)
//   - NATS with JetStream, the decision event bus (NewNATSContainer)
//
// Every file is built only with the integration tag:
//
//	go test -tags integration ./internal/...
//
// Typical use:
//
//	func TestMongoStore_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo.Container)
//
//	    store, err := catalog.NewMongoStore(ctx, catalog.MongoConfig{URI: mongo.URI})
//	    // ...
//	}
//
// Tests are skipped when Docker is not available. The first run pulls the
// images; later runs use the local cache.
package testinfra
