// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

// Package api is the HTTP boundary of the recommendation service.
//
// Routes (chi):
//
//	POST /api/v1/recommendations      catalog-backed recommendations
//	POST /api/v1/recommendations/ai   generative recommendations
//	GET  /api/v1/queue                request queue, breaker and cache stats
//	GET  /api/v1/queue/ws             the same stats pushed over WebSocket
//	GET  /api/v1/health/live          liveness probe
//	GET  /api/v1/health/ready         readiness probe
//	GET  /metrics                     Prometheus exposition
//
// Recommendation responses are written unwrapped:
//
//	{"recommendations": [...], "baseTitle": "Berserk"}
//
// Errors and operational endpoints use the APIResponse envelope:
//
//	{"success": false, "error": {"code": "NO_MATCH", "message": "...", "request_id": "..."}}
//
// Status mapping for recommendation errors:
//
//	400  validation failures, missing titles, unknown media type
//	404  none of the liked titles matched the catalog
//	502  the generative model failed or returned unusable output
//	503  generative path disabled, catalog breaker open, queue stopped
//	504  request deadline exceeded
//	500  anything else
//
// Middleware comes from go-chi (RealIP, Recoverer, cors, httprate) and
// internal/middleware (request IDs, access log, Prometheus, gzip).
package api
