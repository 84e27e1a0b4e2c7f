// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package discovery implements the client-side discovery engine: the shared
// view state, the search controller, the catalog paginator and the scroll
// coordinator. Components never call each other; they communicate only
// through state transitions on the shared State.
//
// Concurrency model: requests run in per-request goroutines, but every
// mutation of State happens under its mutex at response-handling time, and
// response application is additionally guarded by a generation comparison
// so that only the most recently issued request for a controller is ever
// applied (last-issued-wins, not last-arrived-wins).
package discovery

import (
	"sync"

	"github.com/tomtom215/cinescout/internal/models"
)

// Mode is the rendering mode of the discovery view.
type Mode int

const (
	// ModeBrowsing renders the paginated catalog.
	ModeBrowsing Mode = iota

	// ModeSearching renders search results; pagination is suspended.
	ModeSearching
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeSearching {
		return "searching"
	}
	return "browsing"
}

// Snapshot is a consistent read-only copy of the discovery state, safe to
// render from without holding any lock.
type Snapshot struct {
	Mode Mode

	// Browsing mode
	Catalog        []models.Movie
	Cursor         models.Pagination
	LoadingCatalog bool

	// Searching mode
	Query         string
	Results       []models.Movie
	LoadingSearch bool

	// Notice is a dismissible inline message describing the most recent
	// primary-data failure. Empty when there is nothing to show.
	Notice string
}

// Movies returns the collection the active mode renders.
func (s Snapshot) Movies() []models.Movie {
	if s.Mode == ModeSearching {
		return s.Results
	}
	return s.Catalog
}

// State is the single shared discovery state. It is exclusively mutated by
// the SearchController and the Paginator; everything else reads snapshots.
// The paginator's reentrancy guard (pageInFlight) deliberately lives under
// the same mutex as the rest of the state.
type State struct {
	mu sync.Mutex

	mode           Mode
	catalog        []models.Movie
	cursor         models.Pagination
	pageInFlight   bool
	loadingCatalog bool

	query         string
	results       []models.Movie
	searchGen     uint64
	loadingSearch bool

	notice string

	listeners []func()
}

// NewState creates an empty state in Browsing mode.
func NewState() *State {
	return &State{}
}

// AddListener registers fn to be invoked after every state change.
// Listeners are invoked outside the state lock and may take snapshots.
// Not safe to call concurrently with state changes; register listeners
// during wiring, before the controllers start work.
func (s *State) AddListener(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// notify invokes the registered listeners. Must be called without the lock.
func (s *State) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Mode:           s.mode,
		Catalog:        append([]models.Movie(nil), s.catalog...),
		Cursor:         s.cursor,
		LoadingCatalog: s.loadingCatalog,
		Query:          s.query,
		Results:        append([]models.Movie(nil), s.results...),
		LoadingSearch:  s.loadingSearch,
		Notice:         s.notice,
	}
}

// DismissNotice clears the inline failure message.
func (s *State) DismissNotice() {
	s.mu.Lock()
	s.notice = ""
	s.mu.Unlock()
	s.notify()
}

// setNoticeLocked records a dismissible failure message. Caller holds mu.
func (s *State) setNoticeLocked(msg string) {
	s.notice = msg
}
