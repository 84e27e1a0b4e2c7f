// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/cinescout/internal/models"
)

// stubAPI implements api.ClientInterface through function fields so each
// test controls exactly the calls it cares about. Unset operations fail
// loudly, catching unexpected network traffic.
type stubAPI struct {
	searchFn func(ctx context.Context, query string) ([]models.Movie, error)
	listFn   func(ctx context.Context, page, limit int) (*models.MovieListPage, error)
}

var errUnexpectedCall = errors.New("unexpected API call")

func (s *stubAPI) Ping(_ context.Context) error { return nil }

func (s *stubAPI) RegisterSession(_ context.Context) (string, error) {
	return "", errUnexpectedCall
}

func (s *stubAPI) RecordInteraction(_ context.Context, _ models.InteractionEvent) error {
	return errUnexpectedCall
}

func (s *stubAPI) ListMovies(ctx context.Context, page, limit int) (*models.MovieListPage, error) {
	if s.listFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listFn(ctx, page, limit)
}

func (s *stubAPI) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	if s.searchFn == nil {
		return nil, errUnexpectedCall
	}
	return s.searchFn(ctx, query)
}

func (s *stubAPI) GetRecommendations(_ context.Context, _, _ string) ([]models.Movie, error) {
	return nil, errUnexpectedCall
}

func (s *stubAPI) GetUserRecommendations(_ context.Context, _ string, _ int) ([]models.Movie, error) {
	return nil, errUnexpectedCall
}

// movie builds a test movie.
func movie(id int, title string) models.Movie {
	return models.Movie{ID: id, Title: title}
}

// moviePage builds one catalog page with has_next derived from the bound.
func moviePage(page, totalPages int, movies ...models.Movie) *models.MovieListPage {
	return &models.MovieListPage{
		Movies: movies,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      len(movies),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, description string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

// titles extracts the titles of a movie list for compact assertions.
func titles(movies []models.Movie) []string {
	names := make([]string, 0, len(movies))
	for _, m := range movies {
		names = append(names, m.Title)
	}
	return names
}

// equalStrings compares two string slices.
func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
