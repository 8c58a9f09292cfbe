// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package supervisor provides process supervision using suture v4.

The tree has two layers:

	RootSupervisor ("kizuna")
	├── WorkerSupervisor ("worker-layer")
	│   ├── request-queue-jikan   (queue.Queue drain loop)
	│   ├── response cache janitor (cache.Cache)
	│   ├── websocket-hub          (queue stats subscribers)
	│   └── websocket-publisher-queue_stats
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in one layer restarts only that layer's services. The request
queue rejects its pending jobs with queue.ErrStopped whenever its Serve
returns, so a restart never leaves a caller waiting forever.

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog into the zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddWorkerService(requestQueue)
	tree.AddAPIService(services.NewHTTPServerService(&cfg.Server, router.SetupChi()))
	err = tree.Serve(ctx)
*/
package supervisor
