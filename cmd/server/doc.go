// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

// Package main is the entry point for the Kizuna server.
//
// Kizuna turns a list of liked manga, manhwa or anime titles into a list of
// recommendations. It matches the titles against the Jikan (MyAnimeList)
// catalog, follows crowd-sourced recommendations, and falls back to genre and
// top-ranked lists. An optional generative path asks an OpenAI-compatible
// chat model for the same kind of list.
//
// # Application Architecture
//
// Components are built in this order:
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Logging: zerolog, plus an slog adapter for the supervisor
//  3. Request queue: FIFO, one catalog call at a time, QUEUE_DELAY apart
//  4. Catalog client: Jikan HTTP client behind a circuit breaker behind the queue
//  5. Recommendation service with a TTL response cache
//  6. Generative service (disabled without GENERATIVE_API_KEY)
//  7. Queue stats feed: WebSocket hub and publisher (QUEUE_STATS_INTERVAL)
//  8. HTTP server: chi router with CORS, rate limiting and Prometheus metrics
//
// The queue drain loop, cache janitor and stats feed run in the supervisor's worker
// layer; the HTTP server runs in the API layer.
//
// # Configuration
//
// Common environment variables:
//
//	PORT                      listen port (default 8080)
//	CATALOG_BASE_URL          Jikan base URL (default https://api.jikan.moe/v4)
//	QUEUE_DELAY               spacing between catalog calls (default 1s)
//	CATALOG_RATE_LIMIT_DELAY  alias of QUEUE_DELAY
//	RECOMMEND_MAX_RESULTS     result cap per request (default 10)
//	GENERATIVE_API_KEY        enables POST /api/v1/recommendations/ai
//	CORS_ORIGINS              comma-separated allowed origins
//	LOG_LEVEL, LOG_FORMAT     zerolog level and json|console output
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains within
// SERVER_SHUTDOWN_TIMEOUT, and catalog jobs still queued are rejected with
// queue.ErrStopped.
//
// # Example Usage
//
//	export GENERATIVE_API_KEY=sk-...
//	export CORS_ORIGINS=https://kizuna.example
//	./kizuna
//
//	curl -s localhost:8080/api/v1/recommendations \
//	  -d '{"titles":["Berserk"],"mediaType":"manga","limit":5}'
package main
