// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package middleware provides net/http middleware used by the API router.

All middleware has the chi signature func(http.Handler) http.Handler and can
be passed straight to r.Use.

Key Components:

  - RequestID: reuses X-Request-ID or generates a UUID, echoes it on the
    response and seeds the logging context (request_id, correlation_id)
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by the chi route pattern to keep cardinality bounded
  - Compression: pooled gzip for clients that accept it

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    ...
	})
*/
package middleware
