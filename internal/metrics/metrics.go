// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package metrics provides Prometheus instrumentation for the discovery
// engine. Metrics are registered via promauto at package load and exposed
// by the binary on the configured metrics listen address.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Client Metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total requests issued to the recommendation API",
		},
		[]string{"endpoint", "status"}, // status: "success", "failure"
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Latency of recommendation API requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Supersession Metrics

	StaleResponsesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_responses_discarded_total",
			Help: "Responses discarded because a newer request superseded them",
		},
		[]string{"component"}, // "search", "similarity", "personalized"
	)

	// Catalog Metrics

	CatalogPagesLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_pages_loaded_total",
			Help: "Catalog pages appended to the browsing collection",
		},
	)

	SearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_fallbacks_total",
			Help: "Searches that degraded to client-side catalog filtering",
		},
	)

	// Telemetry Metrics

	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Interaction recording attempts by outcome",
		},
		[]string{"kind", "outcome"}, // outcome: "sent", "failed", "dropped"
	)

	// Circuit Breaker Metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
