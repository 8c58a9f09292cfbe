// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/kizuna/internal/cache"
	"github.com/tomtom215/kizuna/internal/queue"
)

// HealthLive handles liveness probe requests. It returns 200 while the
// process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. The service is ready while
// the request queue drain loop runs and the catalog breaker is not open.
// It never calls the catalog itself, so probes do not consume queue slots.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	queueServing := h.queue != nil && h.queue.Stats().Serving

	breakerState := "unknown"
	if h.breaker != nil {
		breakerState = h.breaker.State()
	}
	ready := queueServing && breakerState != "open"

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	NewResponseWriter(w, r).SuccessWithStatus(statusCode, map[string]interface{}{
		"ready_to_serve": ready,
		"queue_serving":  queueServing,
		"catalog_state":  breakerState,
		"uptime":         time.Since(h.startTime).Seconds(),
	})
}

// QueueStatus is the body of GET /api/v1/queue.
type QueueStatus struct {
	Queue   queue.Stats  `json:"queue"`
	DelayMs int64        `json:"delay_ms"`
	Breaker string       `json:"catalog_breaker,omitempty"`
	Cache   *cache.Stats `json:"cache,omitempty"`
}

// QueueStatus returns the current queue, breaker and cache state. It is the
// payload of GET /api/v1/queue and of queue_stats WebSocket messages.
func (h *Handler) QueueStatus() QueueStatus {
	var status QueueStatus
	if h.queue != nil {
		status.Queue = h.queue.Stats()
		status.DelayMs = status.Queue.Delay.Milliseconds()
	}
	if h.breaker != nil {
		status.Breaker = h.breaker.State()
	}
	if h.cache != nil {
		cacheStats := h.cache.GetStats()
		status.Cache = &cacheStats
	}
	return status
}

// QueueStats handles GET /api/v1/queue.
func (h *Handler) QueueStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.queue == nil {
		rw.ServiceUnavailable("Request queue is not configured")
		return
	}
	rw.Success(h.QueueStatus())
}
