// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package recommend orchestrates the two recommendation streams: the
// similarity stream triggered by movie selection and the personalized
// stream triggered once per browsing session. Each stream carries its own
// loading/error/empty state, independent of the discovery state, and each
// applies responses under the same last-issued-wins generation rule as
// search.
package recommend

import (
	"context"
	"sync"

	"github.com/tomtom215/cinescout/internal/api"
	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/metrics"
	"github.com/tomtom215/cinescout/internal/models"
	"github.com/tomtom215/cinescout/internal/telemetry"
)

// SessionProvider resolves the session identifier.
type SessionProvider interface {
	EnsureSession(ctx context.Context) (string, error)
}

// Options configures the orchestrator.
type Options struct {
	// Personalization controls whether the session identifier accompanies
	// similarity requests and whether the personalized stream runs at all.
	Personalization bool

	// PersonalizedLimit is the top-N size of the personalized stream.
	PersonalizedLimit int
}

// Orchestrator owns the similarity and personalized recommendation sets.
// The sets are transient: replaced whenever their triggering key changes,
// destroyed on reset.
type Orchestrator struct {
	client   api.ClientInterface
	sessions SessionProvider
	recorder *telemetry.Recorder
	opts     Options

	mu          sync.Mutex
	similarGen  uint64
	similar     models.RecommendationSet
	personalRun bool
	personal    models.RecommendationSet

	wg        sync.WaitGroup
	listeners []func()
}

// NewOrchestrator creates a recommendation orchestrator.
func NewOrchestrator(client api.ClientInterface, sessions SessionProvider, recorder *telemetry.Recorder, opts Options) *Orchestrator {
	if opts.PersonalizedLimit <= 0 {
		opts.PersonalizedLimit = 10
	}
	return &Orchestrator{
		client:   client,
		sessions: sessions,
		recorder: recorder,
		opts:     opts,
	}
}

// AddListener registers fn to be invoked after a recommendation set
// changes. Register during wiring, before the orchestrator starts work.
func (o *Orchestrator) AddListener(fn func()) {
	o.listeners = append(o.listeners, fn)
}

// notify invokes the registered listeners. Must be called without the lock.
func (o *Orchestrator) notify() {
	for _, fn := range o.listeners {
		fn()
	}
}

// Similar returns a copy of the similarity recommendation set.
func (o *Orchestrator) Similar() models.RecommendationSet {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copySet(o.similar)
}

// Personalized returns a copy of the personalized recommendation set.
func (o *Orchestrator) Personalized() models.RecommendationSet {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copySet(o.personal)
}

// Wait blocks until all in-flight recommendation and telemetry work has
// completed. Superseded requests still run to completion; they are just
// not applied.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// SelectMovie handles a movie selection: it submits a fire-and-forget view
// interaction for the movie, then requests similarity recommendations
// keyed by the movie's title. Selecting a new movie while a previous
// request is outstanding replaces the active set; the stale response is
// discarded on arrival.
func (o *Orchestrator) SelectMovie(ctx context.Context, movie models.Movie) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		// The result is deliberately ignored: telemetry must never block
		// or fail the selection flow.
		_ = o.recorder.Record(ctx, movie.ID, models.InteractionView, models.InteractionDetail{})
	}()

	o.mu.Lock()
	o.similarGen++
	gen := o.similarGen
	o.similar = models.RecommendationSet{Key: movie.Title, Loading: true}
	o.mu.Unlock()
	o.notify()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.fetchSimilar(ctx, gen, movie.Title)
	}()
}

// fetchSimilar requests similarity recommendations and applies them under
// the generation guard.
func (o *Orchestrator) fetchSimilar(ctx context.Context, gen uint64, title string) {
	userID := ""
	if o.opts.Personalization {
		id, err := o.sessions.EnsureSession(ctx)
		if err != nil {
			// Personalization is additive; recommend anonymously instead.
			logging.Debug().Err(err).Msg("no session for similarity request")
		} else {
			userID = id
		}
	}

	movies, err := o.client.GetRecommendations(ctx, title, userID)

	o.mu.Lock()
	if gen != o.similarGen {
		o.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues("similarity").Inc()
		logging.Debug().Str("title", title).Msg("discarding superseded similarity response")
		return
	}

	o.similar = models.RecommendationSet{Key: title, Movies: movies, Err: err}
	o.mu.Unlock()
	o.notify()

	if err != nil {
		logging.Err(err).Str("title", title).Msg("similarity recommendations failed")
	}
}

// EnsurePersonalized triggers the personalized stream. It runs at most
// once per browsing session; later calls are no-ops. Failure or an empty
// result suppresses the section entirely rather than surfacing an error;
// personalization is strictly additive, never load-bearing.
func (o *Orchestrator) EnsurePersonalized(ctx context.Context) {
	o.mu.Lock()
	if !o.opts.Personalization || o.personalRun {
		o.mu.Unlock()
		return
	}
	o.personalRun = true
	o.personal = models.RecommendationSet{Loading: true}
	o.mu.Unlock()
	o.notify()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.fetchPersonalized(ctx)
	}()
}

// fetchPersonalized requests top-N recommendations for the session.
func (o *Orchestrator) fetchPersonalized(ctx context.Context) {
	set := models.RecommendationSet{}

	userID, err := o.sessions.EnsureSession(ctx)
	if err != nil {
		logging.Debug().Err(err).Msg("personalized recommendations suppressed: no session")
	} else {
		set.Key = userID
		movies, err := o.client.GetUserRecommendations(ctx, userID, o.opts.PersonalizedLimit)
		if err != nil {
			logging.Debug().Err(err).Msg("personalized recommendations suppressed")
		} else {
			set.Movies = movies
		}
	}

	o.mu.Lock()
	o.personal = set
	o.mu.Unlock()
	o.notify()
}

// Reset destroys both recommendation sets and re-arms the personalized
// stream, e.g. when a new browsing session starts.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.similarGen++
	o.similar = models.RecommendationSet{}
	o.personalRun = false
	o.personal = models.RecommendationSet{}
	o.mu.Unlock()
	o.notify()
}

// copySet returns a set with its movie slice copied.
func copySet(s models.RecommendationSet) models.RecommendationSet {
	s.Movies = append([]models.Movie(nil), s.Movies...)
	return s
}
