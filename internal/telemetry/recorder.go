// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package telemetry records user interactions (view, click, rate, watch)
// with the recommendation API on a best-effort basis. Recording never
// interrupts the primary interaction flow: failures come back as a Result
// value the caller is free to ignore, and are logged for diagnostics only.
package telemetry

import (
	"context"
	"errors"

	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/metrics"
	"github.com/tomtom215/cinescout/internal/models"
)

// ErrMissingMovieID is the Result reason when no movie identifier was
// provided. The event never reaches the network layer.
var ErrMissingMovieID = errors.New("telemetry: missing movie identifier")

// Result reports the outcome of a recording attempt. Callers may ignore
// it; nothing is retried either way.
type Result struct {
	// Recorded is true when the interaction reached the server.
	Recorded bool

	// Err is the diagnostic reason when Recorded is false.
	Err error
}

// Sender is the slice of the API client the recorder needs.
type Sender interface {
	RecordInteraction(ctx context.Context, event models.InteractionEvent) error
}

// SessionProvider resolves the session identifier, registering lazily when
// absent.
type SessionProvider interface {
	EnsureSession(ctx context.Context) (string, error)
}

// Recorder submits interaction events tied to the session identifier.
type Recorder struct {
	sender   Sender
	sessions SessionProvider
}

// NewRecorder creates an interaction recorder.
func NewRecorder(sender Sender, sessions SessionProvider) *Recorder {
	return &Recorder{sender: sender, sessions: sessions}
}

// Record submits one interaction. A zero movieID is a silent no-op (logged,
// reported in the Result, never an error surfaced to the user). A session
// is ensured before sending, registering one if needed.
func (r *Recorder) Record(ctx context.Context, movieID int, kind models.InteractionKind, detail models.InteractionDetail) Result {
	if movieID == 0 {
		logging.Debug().Str("kind", string(kind)).Msg("dropping interaction without movie identifier")
		metrics.InteractionsRecorded.WithLabelValues(string(kind), "dropped").Inc()
		return Result{Err: ErrMissingMovieID}
	}

	userID, err := r.sessions.EnsureSession(ctx)
	if err != nil {
		logging.Debug().Err(err).Str("kind", string(kind)).Msg("interaction dropped: no session")
		metrics.InteractionsRecorded.WithLabelValues(string(kind), "failed").Inc()
		return Result{Err: err}
	}

	event := models.InteractionEvent{
		UserID:            userID,
		MovieID:           movieID,
		InteractionType:   kind,
		InteractionDetail: detail,
	}

	if err := r.sender.RecordInteraction(ctx, event); err != nil {
		logging.Debug().Err(err).Str("kind", string(kind)).Int("movie_id", movieID).Msg("interaction recording failed")
		metrics.InteractionsRecorded.WithLabelValues(string(kind), "failed").Inc()
		return Result{Err: err}
	}

	metrics.InteractionsRecorded.WithLabelValues(string(kind), "sent").Inc()
	return Result{Recorded: true}
}
