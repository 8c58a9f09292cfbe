// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/kizuna/internal/api"
	"github.com/tomtom215/kizuna/internal/cache"
	"github.com/tomtom215/kizuna/internal/catalog"
	"github.com/tomtom215/kizuna/internal/config"
	"github.com/tomtom215/kizuna/internal/generative"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/queue"
	"github.com/tomtom215/kizuna/internal/recommend"
	"github.com/tomtom215/kizuna/internal/supervisor"
	"github.com/tomtom215/kizuna/internal/supervisor/services"
	"github.com/tomtom215/kizuna/internal/websocket"
)

// responseCacheEntries caps the assembled-response cache.
const responseCacheEntries = 1000

// startupPingTimeout bounds the first catalog probe, queue wait included.
const startupPingTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_url", cfg.Catalog.BaseURL).
		Dur("queue_delay", cfg.Queue.Delay).
		Bool("generative_enabled", cfg.Generative.Enabled()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Kizuna")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Every catalog call goes through this one queue.
	requestQueue := queue.New(queue.Config{
		Name:       "jikan",
		Delay:      cfg.Queue.Delay,
		JobTimeout: cfg.Queue.JobTimeout,
	})
	breaker := catalog.NewCircuitBreakerClient(catalog.NewClient(&cfg.Catalog))
	catalogClient := catalog.NewQueuedClient(breaker, requestQueue)

	var responseCache *cache.Cache
	if cfg.Recommend.CacheEnabled {
		responseCache = cache.New(cfg.Recommend.CacheTTL, responseCacheEntries)
	}

	recommender, err := recommend.NewService(catalogClient, &cfg.Recommend, responseCache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation service")
	}

	generativeService := generative.NewService(&cfg.Generative, cfg.Recommend.MaxResults)
	if generativeService.Enabled() {
		logging.Info().Str("model", cfg.Generative.Model).Msg("Generative recommendations enabled")
	} else {
		logging.Info().Msg("Generative recommendations disabled (no API key)")
	}

	var hub *websocket.Hub
	if cfg.Queue.StatsInterval > 0 {
		hub = websocket.NewHub()
	}

	handler := api.NewHandler(api.Dependencies{
		Catalog:        recommender,
		Generative:     generativeService,
		Queue:          requestQueue,
		Breaker:        breaker,
		Cache:          responseCache,
		Hub:            hub,
		AllowedOrigins: cfg.Security.CORSOrigins,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), cfg.Server.StaticDir)

	tree.AddWorkerService(requestQueue)
	if responseCache != nil {
		tree.AddWorkerService(responseCache)
	}
	if hub != nil {
		tree.AddWorkerService(hub)
		tree.AddWorkerService(websocket.NewPublisher(hub, websocket.MessageTypeQueueStats, cfg.Queue.StatsInterval,
			func() interface{} { return handler.QueueStatus() }))
	}
	tree.AddAPIService(services.NewHTTPServerService(&cfg.Server, router.SetupChi()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	go pingCatalog(ctx, catalogClient)

	// The tree sends exactly one error, once the root supervisor has stopped.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Kizuna stopped")
}

// pingCatalog probes the catalog once through the queue. Failure is logged
// and otherwise ignored: the breaker and readiness probe track health.
func pingCatalog(ctx context.Context, client catalog.ClientInterface) {
	ctx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logging.Warn().Err(err).Msg("Catalog not reachable at startup (will retry per request)")
		return
	}
	logging.Info().Msg("Connected to catalog")
}
