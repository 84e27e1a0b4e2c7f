// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package models

// InteractionKind enumerates the interaction types accepted by the
// /user/interact endpoint.
type InteractionKind string

const (
	InteractionView  InteractionKind = "view"
	InteractionClick InteractionKind = "click"
	InteractionRate  InteractionKind = "rate"
	InteractionWatch InteractionKind = "watch"
)

// InteractionDetail carries the optional payload of an interaction.
// Rating applies to "rate" interactions, WatchDuration (seconds) to
// "watch" interactions.
type InteractionDetail struct {
	Rating        *float64 `json:"rating,omitempty"`
	WatchDuration *int     `json:"watch_duration,omitempty"`
}

// InteractionEvent is the wire shape of a recorded interaction.
type InteractionEvent struct {
	UserID          string          `json:"user_id"`
	MovieID         int             `json:"movie_id"`
	InteractionType InteractionKind `json:"interaction_type"`
	InteractionDetail
}
