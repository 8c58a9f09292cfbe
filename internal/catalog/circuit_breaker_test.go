// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
)

// TestCircuitBreaker_OpensAfterFailures verifies the circuit opens at a 60%
// failure rate over at least 10 requests.
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cbc := NewCircuitBreakerClient(&fakeClient{})

	if cbc.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", cbc.State())
	}

	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			// Trip is evaluated on failure, so the failures come last.
			if i >= 3 {
				return nil, errors.New("simulated API failure")
			}
			return "success", nil
		})
	}

	if cbc.cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open after 70%% failures", cbc.cb.State())
	}

	_, err := cbc.execute(func() (interface{}, error) {
		t.Error("call should not reach the client while open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
}

func TestCircuitBreaker_StaysClosedBelowMinimumRequests(t *testing.T) {
	cbc := NewCircuitBreakerClient(&fakeClient{})

	for i := 0; i < 9; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			return nil, errors.New("failure")
		})
	}

	if cbc.State() != "closed" {
		t.Errorf("state = %s, want closed below 10 requests", cbc.State())
	}
}

func TestCircuitBreaker_NotFoundIsNotAFailure(t *testing.T) {
	cbc := NewCircuitBreakerClient(&fakeClient{})

	for i := 0; i < 20; i++ {
		_, err := cbc.execute(func() (interface{}, error) {
			return nil, fmt.Errorf("get /manga/1: %w", ErrNotFound)
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound passed through", err)
		}
	}

	if cbc.State() != "closed" {
		t.Errorf("state = %s, want closed after not-found responses", cbc.State())
	}
}

func TestCircuitBreaker_DelegatesAndCasts(t *testing.T) {
	fake := &fakeClient{}
	cbc := NewCircuitBreakerClient(fake)
	ctx := context.Background()

	entries, err := cbc.Search(ctx, KindManga, SearchQuery{Query: "berserk"})
	if err != nil || len(entries) != 1 || entries[0].Title != "berserk" {
		t.Errorf("Search() = %+v, %v", entries, err)
	}

	entry, err := cbc.Get(ctx, KindManga, 5)
	if err != nil || entry.ID != 5 {
		t.Errorf("Get() = %+v, %v", entry, err)
	}

	refs, err := cbc.Recommendations(ctx, KindManga, 5)
	if err != nil || len(refs) != 1 {
		t.Errorf("Recommendations() = %+v, %v", refs, err)
	}

	if err := cbc.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v", err)
	}

	fake.err = errors.New("down")
	if _, err := cbc.Top(ctx, KindManga, TopQuery{}); err == nil {
		t.Error("Top() should surface the client error")
	}
}

func TestCastResult(t *testing.T) {
	if _, err := castResult[[]Entry]("not entries", nil); err == nil {
		t.Error("castResult should reject a mismatched type")
	}

	want := errors.New("boom")
	if _, err := castResult[*Entry](nil, want); !errors.Is(err, want) {
		t.Errorf("castResult error = %v, want %v", err, want)
	}
}

func TestStateConversions(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		value float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %s, want %s", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.value {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.value)
		}
	}
}
