// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

/*
Package supervisor provides process supervision for AdMatch using suture v4.

Every long-running component is a suture.Service placed in one of three
layers so that a failure in background work never takes down the decision
API:

	RootSupervisor ("admatch")
	├── DataSupervisor ("data-layer")
	│   ├── catalog-warmer          (services.TickerService)
	│   └── decision-log-cleanup    (services.RunnerService)
	├── MessagingSupervisor ("messaging-layer")
	│   └── strategy-watcher        (services.WatcherService, if a config file is used)
	└── APISupervisor ("api-layer")
	    └── http-server             (services.HTTPServerService)

Crashed services restart with suture's backoff. Shutdown is driven by
context cancellation; services that miss TreeConfig.ShutdownTimeout are
reported by UnstoppedServiceReport.

The decision event emitter and the decision log writer own their own
goroutines; main closes them after the tree has stopped so that decisions
made during HTTP shutdown are still recorded.

Supervisor events are logged through sutureslog, which takes a *slog.Logger.
main passes logging.NewSlogLogger() so these events share the zerolog
output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh
*/
package supervisor
