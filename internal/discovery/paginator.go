// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package discovery

import (
	"context"
	"sync"

	"github.com/tomtom215/cinescout/internal/api"
	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/metrics"
)

// Paginator owns sequential page loading of the full, unfiltered catalog.
// At most one page request is in flight at a time: the reentrancy guard
// absorbs rapid repeated end-of-list signals. Pages are appended in arrival
// order without deduplication (the upstream catalog is stably ordered and
// non-overlapping across pages).
type Paginator struct {
	state    *State
	client   api.ClientInterface
	pageSize int
	wg       sync.WaitGroup
}

// NewPaginator creates a paginator over the shared state.
func NewPaginator(state *State, client api.ClientInterface, pageSize int) *Paginator {
	return &Paginator{state: state, client: client, pageSize: pageSize}
}

// LoadInitial fetches page 1, replacing the catalog collection and
// resetting the cursor. This is the only way pagination resumes after
// HasNext has gone false.
func (p *Paginator) LoadInitial(ctx context.Context) {
	p.load(ctx, 1)
}

// LoadNext fetches the page after the cursor, only when the cursor reports
// more pages, no load is in flight, and Browsing mode is active (entering
// Searching suspends pagination).
func (p *Paginator) LoadNext(ctx context.Context) {
	s := p.state
	s.mu.Lock()
	if s.mode != ModeBrowsing || s.pageInFlight || !s.cursor.HasNext {
		s.mu.Unlock()
		return
	}
	next := s.cursor.Page + 1
	s.pageInFlight = true
	s.loadingCatalog = true
	s.mu.Unlock()
	s.notify()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx, next, false)
	}()
}

// Wait blocks until any in-flight page load has completed.
func (p *Paginator) Wait() {
	p.wg.Wait()
}

// load starts a fresh catalog load at the given page.
func (p *Paginator) load(ctx context.Context, page int) {
	s := p.state
	s.mu.Lock()
	if s.pageInFlight {
		s.mu.Unlock()
		return
	}
	s.pageInFlight = true
	s.loadingCatalog = true
	s.mu.Unlock()
	s.notify()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx, page, true)
	}()
}

// fetch retrieves one page and applies it. reset indicates a fresh load
// (page 1) that replaces the collection instead of appending.
func (p *Paginator) fetch(ctx context.Context, page int, reset bool) {
	listPage, err := p.client.ListMovies(ctx, page, p.pageSize)

	s := p.state
	s.mu.Lock()
	s.pageInFlight = false
	s.loadingCatalog = false

	if err != nil {
		logging.Err(err).Int("page", page).Msg("catalog page load failed")
		s.setNoticeLocked("Could not load the catalog: " + err.Error())
		s.mu.Unlock()
		s.notify()
		return
	}

	if reset {
		s.catalog = listPage.Movies
	} else {
		s.catalog = append(s.catalog, listPage.Movies...)
	}
	s.cursor = listPage.Pagination

	// An empty page means the catalog is exhausted even if the server
	// still claims more.
	if len(listPage.Movies) == 0 {
		s.cursor.HasNext = false
	}

	metrics.CatalogPagesLoaded.Inc()
	s.mu.Unlock()
	s.notify()
}
