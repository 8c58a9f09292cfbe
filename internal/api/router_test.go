// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/kizuna/internal/config"
	"github.com/tomtom215/kizuna/internal/middleware"
)

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Dependencies{Catalog: &fakeRecommender{resp: sampleResponse()}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route error = %+v", env.Error)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET recommendations status = %d, want 405", rec.Code)
	}
}

func TestRouter_MiddlewareHeaders(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Dependencies{Catalog: &fakeRecommender{resp: sampleResponse()}})

	rec := postJSON(t, h, "/api/v1/recommendations", `{"titles":["Berserk"]}`)

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("X-Request-ID should be set")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be set on API routes")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", rec.Header().Get("Cache-Control"))
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Dependencies{Catalog: &fakeRecommender{}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", nil)
	req.Header.Set("Origin", "https://kizuna.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://kizuna.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Dependencies{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output should include default collectors")
	}
}

func TestRouter_StaticDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Kizuna</h1>"), 0o600); err != nil {
		t.Fatal(err)
	}
	h := NewRouter(NewHandler(Dependencies{}), NewChiMiddleware(nil), dir).SetupChi()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Kizuna") {
		t.Errorf("static index: status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	mw := NewChiMiddlewareFromConfig(&config.SecurityConfig{
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	})
	h := NewRouter(NewHandler(Dependencies{Catalog: &fakeRecommender{resp: sampleResponse()}}), mw, "").SetupChi()

	var codes []int
	for i := 0; i < 3; i++ {
		rec := postJSON(t, h, "/api/v1/recommendations", `{"titles":["Berserk"]}`)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()
	mw := NewChiMiddlewareFromConfig(&config.SecurityConfig{
		RateLimitReqs:     1,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
	})
	h := NewRouter(NewHandler(Dependencies{Catalog: &fakeRecommender{resp: sampleResponse()}}), mw, "").SetupChi()

	for i := 0; i < 3; i++ {
		if rec := postJSON(t, h, "/api/v1/recommendations", `{"titles":["Berserk"]}`); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultChiMiddlewareConfig()
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want []", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}
