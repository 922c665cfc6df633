// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package services adapts AdMatch components to suture.Service.

Each wrapper translates a component's lifecycle into suture's
Serve(ctx) error and implements fmt.Stringer so supervisor events name
the service.

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - TickerService: a function run on a fixed interval (catalog warm-up)
  - RunnerService: a blocking func(ctx) error loop (decision log retention)
  - WatcherService: a file watch that reloads on change (strategy settings)

Returning an error from Serve makes suture restart the service with
backoff. Returning ctx.Err() after cancellation is a clean stop.
*/
package services
