// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
)

// BreakerName labels the catalog circuit breaker in logs and metrics.
const BreakerName = "catalog-api"

// CircuitBreakerClient wraps a ClientInterface with the circuit breaker pattern
// so that a failing Jikan does not hold every queued job for its full timeout.
//
// The breaker uses real time (via sony/gobreaker) for its interval and timeout.
// Tests should drive execute directly or wrap a fake client.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client. Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
//
// ErrNotFound and context cancellation are not counted as failures.
func NewCircuitBreakerClient(client ClientInterface) *CircuitBreakerClient {
	cbName := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// IsUnavailable reports whether err is a call rejected by an open or
// half-open breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// execute wraps a catalog call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if IsUnavailable(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Search with circuit breaker protection.
func (cbc *CircuitBreakerClient) Search(ctx context.Context, kind Kind, query SearchQuery) ([]Entry, error) {
	return castResult[[]Entry](cbc.execute(func() (interface{}, error) {
		return cbc.client.Search(ctx, kind, query)
	}))
}

// Get with circuit breaker protection.
func (cbc *CircuitBreakerClient) Get(ctx context.Context, kind Kind, id int) (*Entry, error) {
	return castResult[*Entry](cbc.execute(func() (interface{}, error) {
		return cbc.client.Get(ctx, kind, id)
	}))
}

// Recommendations with circuit breaker protection.
func (cbc *CircuitBreakerClient) Recommendations(ctx context.Context, kind Kind, id int) ([]Reference, error) {
	return castResult[[]Reference](cbc.execute(func() (interface{}, error) {
		return cbc.client.Recommendations(ctx, kind, id)
	}))
}

// Top with circuit breaker protection.
func (cbc *CircuitBreakerClient) Top(ctx context.Context, kind Kind, query TopQuery) ([]Entry, error) {
	return castResult[[]Entry](cbc.execute(func() (interface{}, error) {
		return cbc.client.Top(ctx, kind, query)
	}))
}

// Genres with circuit breaker protection.
func (cbc *CircuitBreakerClient) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	return castResult[[]Genre](cbc.execute(func() (interface{}, error) {
		return cbc.client.Genres(ctx, kind)
	}))
}

// Ping with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}
