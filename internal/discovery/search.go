// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package discovery

import (
	"context"
	"strings"
	"sync"

	"github.com/tomtom215/cinescout/internal/api"
	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/metrics"
	"github.com/tomtom215/cinescout/internal/models"
)

// fallbackCatalogLimit is the page size used to pull the full catalog in
// one request when remote search fails and results are filtered locally.
// The server slices by limit, so a bound above the catalog size returns
// everything.
const fallbackCatalogLimit = 10000

// SearchController owns the active query string and the search results.
// Every query change issues a request tagged with a monotonically
// increasing generation; a response is applied only when its generation is
// still the latest (stale responses are discarded on arrival, never applied
// out of order).
type SearchController struct {
	state  *State
	client api.ClientInterface
	wg     sync.WaitGroup
}

// NewSearchController creates a search controller over the shared state.
func NewSearchController(state *State, client api.ClientInterface) *SearchController {
	return &SearchController{state: state, client: client}
}

// SetQuery stores the trimmed query and triggers a lookup. An empty
// (after trim) query clears results and returns to Browsing mode without a
// network call. A query that is a strict prefix of a previous one is not
// special-cased; it re-issues like any other change.
func (c *SearchController) SetQuery(ctx context.Context, text string) {
	query := strings.TrimSpace(text)

	s := c.state
	s.mu.Lock()
	// Invalidate any outstanding request regardless of direction: both a
	// new query and a clear supersede whatever is in flight.
	s.searchGen++

	if query == "" {
		s.mode = ModeBrowsing
		s.query = ""
		s.results = nil
		s.loadingSearch = false
		s.mu.Unlock()
		s.notify()
		return
	}

	gen := s.searchGen
	s.mode = ModeSearching
	s.query = query
	s.loadingSearch = true
	s.mu.Unlock()
	s.notify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.lookup(ctx, gen, query)
	}()
}

// ClearQuery returns to Browsing mode, discarding query and results.
func (c *SearchController) ClearQuery() {
	c.SetQuery(context.Background(), "")
}

// Wait blocks until all in-flight lookups have completed. Superseded
// lookups count: they still run to completion, they are just not applied.
func (c *SearchController) Wait() {
	c.wg.Wait()
}

// lookup performs the remote search, degrading to client-side filtering
// over the full catalog when the remote search fails.
func (c *SearchController) lookup(ctx context.Context, gen uint64, query string) {
	movies, err := c.client.SearchMovies(ctx, query)
	if err != nil {
		logging.Debug().Err(err).Str("query", query).Msg("remote search failed, filtering catalog locally")
		metrics.SearchFallbacks.Inc()
		movies, err = c.filterCatalog(ctx, query)
	}
	c.apply(gen, movies, err)
}

// filterCatalog fetches the unpaginated catalog and filters it by
// case-insensitive substring match on title. Title-only: catalog entries
// carry no other searchable text.
func (c *SearchController) filterCatalog(ctx context.Context, query string) ([]models.Movie, error) {
	page, err := c.client.ListMovies(ctx, 1, fallbackCatalogLimit)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]models.Movie, 0, len(page.Movies))
	for _, movie := range page.Movies {
		if strings.Contains(strings.ToLower(movie.Title), needle) {
			matches = append(matches, movie)
		}
	}
	return matches, nil
}

// apply installs the result into the state, unless a newer query has been
// issued in the meantime (last-issued-wins).
func (c *SearchController) apply(gen uint64, movies []models.Movie, err error) {
	s := c.state
	s.mu.Lock()

	if gen != s.searchGen {
		s.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues("search").Inc()
		logging.Debug().Uint64("generation", gen).Msg("discarding superseded search response")
		return
	}

	s.loadingSearch = false
	if err != nil {
		// Both the remote search and the local fallback failed. Surface it
		// and keep the previous results on screen.
		s.setNoticeLocked("Search failed: " + err.Error())
	} else {
		s.results = movies
	}

	s.mu.Unlock()
	s.notify()
}
