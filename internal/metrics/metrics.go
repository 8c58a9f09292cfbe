// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}, // catalog requests wait on the queue
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Request Queue Metrics
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "request_queue_depth",
			Help: "Number of jobs waiting in the request queue",
		},
		[]string{"queue"},
	)

	QueueWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_queue_wait_seconds",
			Help:    "Time a job spent pending before it started",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"queue"},
	)

	QueueRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_queue_run_seconds",
			Help:    "Time a job spent executing",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"queue"},
	)

	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_queue_jobs_total",
			Help: "Total number of jobs completed by the request queue",
		},
		[]string{"queue", "outcome"}, // outcome: "success", "failure", "panic", "timeout", "stopped"
	)

	// Upstream Catalog Metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of upstream catalog API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_request_errors_total",
			Help: "Total number of failed upstream catalog API calls",
		},
		[]string{"operation"},
	)

	CatalogRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rate_limited_total",
			Help: "Total number of HTTP 429 responses from the upstream catalog",
		},
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists returned",
		},
		[]string{"source", "media_type"}, // source: "catalog", "generative"
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Total number of times a fallback source filled a recommendation list",
		},
		[]string{"media_type", "fallback"}, // fallback: "genre", "top"
	)

	GenerativeRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generative_request_duration_seconds",
			Help:    "Duration of generative model calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	GenerativeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generative_errors_total",
			Help: "Total number of failed generative recommendation calls",
		},
		[]string{"error_type"}, // "request", "parse"
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordQueueJob records the wait and run time of a finished job.
func RecordQueueJob(queue, outcome string, wait, run time.Duration) {
	QueueWaitDuration.WithLabelValues(queue).Observe(wait.Seconds())
	QueueRunDuration.WithLabelValues(queue).Observe(run.Seconds())
	QueueJobsTotal.WithLabelValues(queue, outcome).Inc()
}

// SetQueueDepth publishes the current number of pending jobs.
func SetQueueDepth(queue string, depth int) {
	QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

// RecordCatalogRequest records an upstream catalog call.
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogRequestErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRecommendations records a served recommendation list.
func RecordRecommendations(source, mediaType string) {
	RecommendationsServed.WithLabelValues(source, mediaType).Inc()
}

// RecordFallback records that a fallback source contributed results.
func RecordFallback(mediaType, fallback string) {
	RecommendationFallbacks.WithLabelValues(mediaType, fallback).Inc()
}

// RecordGenerativeRequest records a generative model call.
func RecordGenerativeRequest(duration time.Duration, errorType string) {
	GenerativeRequestDuration.Observe(duration.Seconds())
	if errorType != "" {
		GenerativeErrors.WithLabelValues(errorType).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss for the given cache.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}
