// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package models

// RecommendationSet is one stream of recommendations, tagged by the key
// that triggered it (a source movie title for the similarity stream, a
// session identifier for the personalized stream). Sets are transient:
// the orchestrator replaces them whenever their key changes.
type RecommendationSet struct {
	// Key identifies the trigger of this set.
	Key string

	// Movies is the resolved recommendation list. Empty with Loading and
	// Err clear means the stream completed with no results.
	Movies []Movie

	// Loading is true while a request for this key is outstanding.
	Loading bool

	// Err holds the failure of the most recent request, if any.
	Err error
}

// Empty reports whether the set resolved with no results and no error.
func (s RecommendationSet) Empty() bool {
	return !s.Loading && s.Err == nil && len(s.Movies) == 0
}
