// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package models defines the value types exchanged with the recommendation
// API and shared across the discovery engine. All types here are immutable
// once fetched; Movie equality is by identifier.
package models

import (
	"fmt"
	"net/url"
)

// placeholderBaseURL is the image service used when the API returns no
// poster reference. The generated URL is keyed by title so it is stable
// across fetches of the same movie.
const placeholderBaseURL = "https://placehold.co/500x750"

// Movie represents a single catalog entry as returned by the API.
// Poster and backdrop references are nullable; use PosterOrPlaceholder
// when rendering.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterURL   *string `json:"poster_url"`
	BackdropURL *string `json:"backdrop_url"`
}

// Equal reports whether two movies refer to the same catalog entry.
// Equality is by identifier only; metadata may differ between fetches.
func (m Movie) Equal(other Movie) bool {
	return m.ID == other.ID
}

// PosterOrPlaceholder returns the poster URL, falling back to a generated
// placeholder keyed by the movie title when the API returned none.
func (m Movie) PosterOrPlaceholder() string {
	if m.PosterURL != nil && *m.PosterURL != "" {
		return *m.PosterURL
	}
	return fmt.Sprintf("%s?text=%s", placeholderBaseURL, url.QueryEscape(m.Title))
}

// Pagination mirrors the pagination object of the /movies response.
// Page numbering is 1-based.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// MovieListPage is one page of the catalog listing.
type MovieListPage struct {
	Movies     []Movie    `json:"movies"`
	Pagination Pagination `json:"pagination"`
}
