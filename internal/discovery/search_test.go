// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package discovery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/cinescout/internal/models"
)

func TestSetQueryAppliesResults(t *testing.T) {
	stub := &stubAPI{
		searchFn: func(_ context.Context, query string) ([]models.Movie, error) {
			if query != "matrix" {
				t.Errorf("expected trimmed query %q, got %q", "matrix", query)
			}
			return []models.Movie{movie(603, "The Matrix")}, nil
		},
	}
	state := NewState()
	controller := NewSearchController(state, stub)

	controller.SetQuery(context.Background(), "  matrix  ")
	controller.Wait()

	snap := state.Snapshot()
	if snap.Mode != ModeSearching {
		t.Errorf("expected Searching mode, got %v", snap.Mode)
	}
	if snap.Query != "matrix" {
		t.Errorf("expected stored query %q, got %q", "matrix", snap.Query)
	}
	if !equalStrings(titles(snap.Results), []string{"The Matrix"}) {
		t.Errorf("unexpected results: %v", titles(snap.Results))
	}
}

func TestEmptyQueryClearsWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	stub := &stubAPI{
		searchFn: func(_ context.Context, _ string) ([]models.Movie, error) {
			calls.Add(1)
			return []models.Movie{movie(1, "A")}, nil
		},
	}
	state := NewState()
	controller := NewSearchController(state, stub)
	ctx := context.Background()

	controller.SetQuery(ctx, "something")
	controller.Wait()
	controller.SetQuery(ctx, "   ")
	controller.Wait()

	snap := state.Snapshot()
	if snap.Mode != ModeBrowsing {
		t.Errorf("expected Browsing mode after clear, got %v", snap.Mode)
	}
	if len(snap.Results) != 0 {
		t.Errorf("expected no results after clear, got %d", len(snap.Results))
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("blank query must not issue a request; got %d search calls", got)
	}
}

// Rapid query changes: the stale "incep" response arrives after the
// "inception" response and must be discarded (last-issued-wins, not
// last-arrived-wins).
func TestStaleSearchResponseDiscarded(t *testing.T) {
	issued := make(chan string, 2)
	releaseFirst := make(chan struct{})

	stub := &stubAPI{
		searchFn: func(_ context.Context, query string) ([]models.Movie, error) {
			issued <- query
			if query == "incep" {
				<-releaseFirst // hold the first response until after the second lands
				return []models.Movie{movie(1, "Incendies")}, nil
			}
			return []models.Movie{movie(27205, "Inception")}, nil
		},
	}
	state := NewState()
	controller := NewSearchController(state, stub)
	ctx := context.Background()

	controller.SetQuery(ctx, "incep")
	<-issued
	controller.SetQuery(ctx, "inception")
	<-issued

	waitFor(t, "inception results applied", func() bool {
		return equalStrings(titles(state.Snapshot().Results), []string{"Inception"})
	})

	close(releaseFirst)
	controller.Wait()

	snap := state.Snapshot()
	if !equalStrings(titles(snap.Results), []string{"Inception"}) {
		t.Errorf("stale response overwrote newer results: %v", titles(snap.Results))
	}
	if snap.Query != "inception" {
		t.Errorf("expected query %q, got %q", "inception", snap.Query)
	}
}

// A prefix of an earlier query is not special-cased; it re-issues.
func TestPrefixQueryReissues(t *testing.T) {
	var calls atomic.Int32
	stub := &stubAPI{
		searchFn: func(_ context.Context, _ string) ([]models.Movie, error) {
			calls.Add(1)
			return nil, nil
		},
	}
	controller := NewSearchController(NewState(), stub)
	ctx := context.Background()

	controller.SetQuery(ctx, "inception")
	controller.Wait()
	controller.SetQuery(ctx, "incep")
	controller.Wait()

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 search calls, got %d", got)
	}
}

// A failing search backend degrades to case-insensitive title filtering
// over the full catalog.
func TestSearchFallsBackToCatalogFilter(t *testing.T) {
	stub := &stubAPI{
		searchFn: func(_ context.Context, _ string) ([]models.Movie, error) {
			return nil, errors.New("search returned status 500: internal error")
		},
		listFn: func(_ context.Context, page, limit int) (*models.MovieListPage, error) {
			if page != 1 {
				t.Errorf("fallback should fetch page 1, got %d", page)
			}
			if limit != fallbackCatalogLimit {
				t.Errorf("fallback should fetch the full catalog, got limit %d", limit)
			}
			return moviePage(1, 1,
				movie(603, "The Matrix"),
				movie(604, "The Matrix Reloaded"),
				movie(27205, "Inception"),
				movie(605, "the matrix revolutions"),
			), nil
		},
	}
	state := NewState()
	controller := NewSearchController(state, stub)

	controller.SetQuery(context.Background(), "Matrix")
	controller.Wait()

	snap := state.Snapshot()
	want := []string{"The Matrix", "The Matrix Reloaded", "the matrix revolutions"}
	if !equalStrings(titles(snap.Results), want) {
		t.Errorf("expected %v, got %v", want, titles(snap.Results))
	}
	if snap.Notice != "" {
		t.Errorf("fallback must be silent, got notice %q", snap.Notice)
	}
}

// Only when both the search and the fallback fail does the user see a
// notice; prior results stay on screen.
func TestSearchFailureKeepsPriorResults(t *testing.T) {
	failing := false
	stub := &stubAPI{
		searchFn: func(_ context.Context, _ string) ([]models.Movie, error) {
			if failing {
				return nil, errors.New("search down")
			}
			return []models.Movie{movie(1, "Alien")}, nil
		},
		listFn: func(_ context.Context, _, _ int) (*models.MovieListPage, error) {
			return nil, errors.New("catalog down")
		},
	}
	state := NewState()
	controller := NewSearchController(state, stub)
	ctx := context.Background()

	controller.SetQuery(ctx, "alien")
	controller.Wait()
	failing = true
	controller.SetQuery(ctx, "aliens")
	controller.Wait()

	snap := state.Snapshot()
	if snap.Notice == "" {
		t.Error("expected a dismissible notice after total search failure")
	}
	if !equalStrings(titles(snap.Results), []string{"Alien"}) {
		t.Errorf("prior results should be preserved, got %v", titles(snap.Results))
	}

	state.DismissNotice()
	if state.Snapshot().Notice != "" {
		t.Error("notice should clear on dismiss")
	}
}
