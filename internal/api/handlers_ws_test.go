// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/kizuna/internal/queue"
	"github.com/tomtom215/kizuna/internal/websocket"
)

// startHub serves a hub until the test ends.
func startHub(t *testing.T) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func dialQueueFeed(t *testing.T, server *httptest.Server, origin string) (*gorillaws.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/queue/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

func TestQueueWebSocket_Disabled(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Dependencies{Queue: fakeQueue{}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/queue/ws", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestQueueWebSocket_StreamsQueueStatus(t *testing.T) {
	hub := startHub(t)
	handler := NewHandler(Dependencies{
		Queue:          fakeQueue{queue.Stats{Name: "jikan", Pending: 2, Delay: time.Second}},
		Breaker:        fakeBreaker("closed"),
		Hub:            hub,
		AllowedOrigins: []string{"https://kizuna.example"},
	})
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true, CORSAllowedOrigins: []string{"https://kizuna.example"}})
	server := httptest.NewServer(NewRouter(handler, mw, "").SetupChi())
	t.Cleanup(server.Close)

	conn, _, err := dialQueueFeed(t, server, "https://kizuna.example")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !hub.Broadcast(websocket.MessageTypeQueueStats, handler.QueueStatus()) {
		t.Fatal("Broadcast() = false")
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type string      `json:"type"`
		Data QueueStatus `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != websocket.MessageTypeQueueStats {
		t.Errorf("type = %q", msg.Type)
	}
	if msg.Data.Queue.Pending != 2 || msg.Data.DelayMs != 1000 || msg.Data.Breaker != "closed" {
		t.Errorf("data = %+v", msg.Data)
	}
}

func TestQueueWebSocket_OriginRejected(t *testing.T) {
	hub := startHub(t)
	server := httptest.NewServer(newTestServer(t, Dependencies{
		Queue:          fakeQueue{},
		Hub:            hub,
		AllowedOrigins: []string{"https://kizuna.example"},
	}))
	t.Cleanup(server.Close)

	for _, origin := range []string{"", "https://evil.example"} {
		_, resp, err := dialQueueFeed(t, server, origin)
		if err == nil {
			t.Errorf("origin %q: dial succeeded, want rejection", origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: response = %v, want 403", origin, resp)
		}
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after rejected upgrades", hub.ClientCount())
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"exact match", []string{"https://kizuna.example"}, "https://kizuna.example", true},
		{"case insensitive", []string{"https://Kizuna.example"}, "https://kizuna.example", true},
		{"wildcard", []string{"*"}, "https://anything.example", true},
		{"not listed", []string{"https://kizuna.example"}, "https://evil.example", false},
		{"missing origin", []string{"*"}, "", false},
		{"no origins configured", nil, "https://kizuna.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(Dependencies{AllowedOrigins: tt.allowed})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/queue/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()
	if got := sanitizeLogValue("https://a.example\r\nX-Injected: 1"); got != "https://a.exampleX-Injected: 1" {
		t.Errorf("control characters not stripped: %q", got)
	}
	if got := sanitizeLogValue(strings.Repeat("a", 500)); len(got) != 200 {
		t.Errorf("len = %d, want 200", len(got))
	}
}
