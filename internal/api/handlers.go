// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"context"
	"time"

	"github.com/tomtom215/kizuna/internal/cache"
	"github.com/tomtom215/kizuna/internal/queue"
	"github.com/tomtom215/kizuna/internal/recommend"
	"github.com/tomtom215/kizuna/internal/websocket"
)

// Recommender produces recommendations for a request. recommend.Service and
// generative.Service implement it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// QueueInspector reports request queue state.
type QueueInspector interface {
	Stats() queue.Stats
}

// BreakerInspector reports the catalog circuit breaker state.
type BreakerInspector interface {
	State() string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_recommend.go: catalog and generative recommendation endpoints
//   - handlers_health.go: health probes and queue stats
//   - handlers_ws.go: live queue stats over WebSocket
type Handler struct {
	catalog        Recommender
	generative     Recommender
	queue          QueueInspector
	breaker        BreakerInspector
	cache          *cache.Cache
	hub            *websocket.Hub
	allowedOrigins []string
	startTime      time.Time
}

// Dependencies groups what NewHandler needs. Generative, Breaker, Cache and
// Hub may be nil.
type Dependencies struct {
	Catalog    Recommender
	Generative Recommender
	Queue      QueueInspector
	Breaker    BreakerInspector
	Cache      *cache.Cache

	// Hub serves GET /api/v1/queue/ws. AllowedOrigins is checked against
	// the Origin header of upgrade requests; "*" allows any origin.
	Hub            *websocket.Hub
	AllowedOrigins []string
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Dependencies{Catalog: svc, Queue: q})
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), "")
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		catalog:        deps.Catalog,
		generative:     deps.Generative,
		queue:          deps.Queue,
		breaker:        deps.Breaker,
		cache:          deps.Cache,
		hub:            deps.Hub,
		allowedOrigins: deps.AllowedOrigins,
		startTime:      time.Now(),
	}
}
