// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rejected requests (counter)

Request Queue Metrics:
  - request_queue_depth: Pending jobs (gauge)
  - request_queue_wait_seconds: Time from submission to start (histogram)
  - request_queue_run_seconds: Job execution time (histogram)
  - request_queue_jobs_total: Completed jobs (counter)
    Labels: queue, outcome (success, failure, panic, timeout, stopped)

Catalog Metrics:
  - catalog_request_duration_seconds: Upstream call latency (histogram)
  - catalog_request_errors_total: Failed upstream calls (counter)
  - catalog_rate_limited_total: HTTP 429 responses (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
  - circuit_breaker_consecutive_failures: Consecutive failures (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)

Recommendation Metrics:
  - recommendations_served_total: Lists returned (counter)
    Labels: source (catalog, generative), media_type
  - recommendation_fallbacks_total: Fallback usage (counter)
  - generative_request_duration_seconds: Model call latency (histogram)
  - generative_errors_total: Failed model calls (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total (counter)
    Labels: cache_type

# Usage

	start := time.Now()
	entry, err := client.Get(ctx, catalog.KindManga, id)
	metrics.RecordCatalogRequest("get", time.Since(start), err)
*/
package metrics
