// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))

	RecordAPIRequest("POST", "/api/v1/recommendations", "200", 250*time.Millisecond)
	RecordAPIRequest("POST", "/api/v1/recommendations", "200", 2*time.Second)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))
	if after-before != 2 {
		t.Errorf("Expected 2 new requests, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+2 {
		t.Errorf("Expected %v active requests, got %v", before+2, got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("Expected %v active requests, got %v", before, got)
	}
}

func TestRecordQueueJob(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
	}{
		{"success", "success"},
		{"failure", "failure"},
		{"panic", "panic"},
		{"timeout", "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := QueueJobsTotal.WithLabelValues("metrics-test", tt.outcome)
			before := testutil.ToFloat64(counter)

			RecordQueueJob("metrics-test", tt.outcome, 10*time.Millisecond, 5*time.Millisecond)

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("Expected %s count %v, got %v", tt.outcome, before+1, got)
			}
		})
	}
}

func TestSetQueueDepth(t *testing.T) {
	SetQueueDepth("depth-test", 7)
	if got := testutil.ToFloat64(QueueDepth.WithLabelValues("depth-test")); got != 7 {
		t.Errorf("Expected depth 7, got %v", got)
	}

	SetQueueDepth("depth-test", 0)
	if got := testutil.ToFloat64(QueueDepth.WithLabelValues("depth-test")); got != 0 {
		t.Errorf("Expected depth 0, got %v", got)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	errCounter := CatalogRequestErrors.WithLabelValues("search")
	before := testutil.ToFloat64(errCounter)

	RecordCatalogRequest("search", 100*time.Millisecond, nil)
	if got := testutil.ToFloat64(errCounter); got != before {
		t.Errorf("Successful call should not count as error, got %v want %v", got, before)
	}

	RecordCatalogRequest("search", 100*time.Millisecond, errors.New("upstream 500"))
	if got := testutil.ToFloat64(errCounter); got != before+1 {
		t.Errorf("Expected error count %v, got %v", before+1, got)
	}
}

func TestRecordGenerativeRequest(t *testing.T) {
	parseErrors := GenerativeErrors.WithLabelValues("parse")
	before := testutil.ToFloat64(parseErrors)

	RecordGenerativeRequest(time.Second, "")
	RecordGenerativeRequest(time.Second, "parse")

	if got := testutil.ToFloat64(parseErrors); got != before+1 {
		t.Errorf("Expected parse errors %v, got %v", before+1, got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("recommendations-test")
	misses := CacheMisses.WithLabelValues("recommendations-test")
	hitsBefore := testutil.ToFloat64(hits)
	missesBefore := testutil.ToFloat64(misses)

	RecordCacheLookup("recommendations-test", true)
	RecordCacheLookup("recommendations-test", false)
	RecordCacheLookup("recommendations-test", false)

	if got := testutil.ToFloat64(hits); got != hitsBefore+1 {
		t.Errorf("Expected hits %v, got %v", hitsBefore+1, got)
	}
	if got := testutil.ToFloat64(misses); got != missesBefore+2 {
		t.Errorf("Expected misses %v, got %v", missesBefore+2, got)
	}
}

func TestRecordRecommendationsAndFallbacks(t *testing.T) {
	served := RecommendationsServed.WithLabelValues("catalog", "manhwa")
	fallback := RecommendationFallbacks.WithLabelValues("manhwa", "top")
	servedBefore := testutil.ToFloat64(served)
	fallbackBefore := testutil.ToFloat64(fallback)

	RecordRecommendations("catalog", "manhwa")
	RecordFallback("manhwa", "top")

	if got := testutil.ToFloat64(served); got != servedBefore+1 {
		t.Errorf("Expected served %v, got %v", servedBefore+1, got)
	}
	if got := testutil.ToFloat64(fallback); got != fallbackBefore+1 {
		t.Errorf("Expected fallbacks %v, got %v", fallbackBefore+1, got)
	}
}
