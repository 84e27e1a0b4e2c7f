// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/metrics"
	"github.com/tomtom215/cinescout/internal/models"
)

// CircuitBreakerClient wraps a ClientInterface with the circuit breaker
// pattern, preventing cascading slowness when the recommendation API is
// unavailable.
//
// DETERMINISM NOTE: the circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. Tests should exercise the
// wrapped client directly rather than waiting out breaker timeouts.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// Ensure CircuitBreakerClient implements ClientInterface
var _ ClientInterface = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps client with a circuit breaker.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client ClientInterface) *CircuitBreakerClient {
	cbName := "recommendation-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // need a minimum sample before tripping
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
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

// stateToFloat converts circuit breaker state to a metric value.
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

// stateToString converts circuit breaker state to a string for logging.
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

// Ping verifies connectivity with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// RegisterSession registers a session with circuit breaker protection.
func (cbc *CircuitBreakerClient) RegisterSession(ctx context.Context) (string, error) {
	return castResult[string](cbc.execute(func() (interface{}, error) {
		return cbc.client.RegisterSession(ctx)
	}))
}

// RecordInteraction records an interaction with circuit breaker protection.
func (cbc *CircuitBreakerClient) RecordInteraction(ctx context.Context, event models.InteractionEvent) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.RecordInteraction(ctx, event)
	})
	return err
}

// ListMovies retrieves a catalog page with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListMovies(ctx context.Context, page, limit int) (*models.MovieListPage, error) {
	return castResult[*models.MovieListPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.ListMovies(ctx, page, limit)
	}))
}

// SearchMovies performs a search with circuit breaker protection.
func (cbc *CircuitBreakerClient) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	return castResult[[]models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.SearchMovies(ctx, query)
	}))
}

// GetRecommendations retrieves similarity recommendations with circuit
// breaker protection.
func (cbc *CircuitBreakerClient) GetRecommendations(ctx context.Context, movieTitle, userID string) ([]models.Movie, error) {
	return castResult[[]models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetRecommendations(ctx, movieTitle, userID)
	}))
}

// GetUserRecommendations retrieves personalized recommendations with
// circuit breaker protection.
func (cbc *CircuitBreakerClient) GetUserRecommendations(ctx context.Context, userID string, limit int) ([]models.Movie, error) {
	return castResult[[]models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetUserRecommendations(ctx, userID, limit)
	}))
}
