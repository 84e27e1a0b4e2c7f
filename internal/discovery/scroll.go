// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package discovery

import "sync"

// Section names a navigable region of the view.
type Section string

const (
	SectionCatalog Section = "catalog"
	SectionSearch  Section = "search"
)

// ScrollOffset is the fixed visual offset applied on every scroll so the
// target is not occluded by fixed UI chrome.
const ScrollOffset = 80

// ScrollFunc performs the actual scroll in the view layer.
type ScrollFunc func(section Section, offset int)

// ScrollCoordinator reconciles navigation intents with the asynchronous
// readiness of the target section's data. If the section is ready, the
// scroll happens immediately; otherwise the intent is held and replayed on
// the first state change that finds the section ready. At most one intent
// is held; a new request overwrites an unfulfilled prior one.
type ScrollCoordinator struct {
	state  *State
	scroll ScrollFunc

	mu      sync.Mutex
	pending Section // "" when no intent is held
}

// NewScrollCoordinator creates a coordinator. Register its OnStateChange
// as a state listener during wiring:
//
//	state.AddListener(coordinator.OnStateChange)
func NewScrollCoordinator(state *State, scroll ScrollFunc) *ScrollCoordinator {
	return &ScrollCoordinator{state: state, scroll: scroll}
}

// RequestSection scrolls to the section now if its backing data is loaded,
// otherwise records the intent for replay.
func (c *ScrollCoordinator) RequestSection(name Section) {
	if c.ready(name) {
		c.mu.Lock()
		c.pending = ""
		c.mu.Unlock()
		c.scroll(name, ScrollOffset)
		return
	}

	c.mu.Lock()
	c.pending = name
	c.mu.Unlock()
}

// OnStateChange replays the held intent once its prerequisite state holds.
func (c *ScrollCoordinator) OnStateChange() {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending == "" || !c.ready(pending) {
		return
	}

	c.mu.Lock()
	// Re-check under the lock: a concurrent RequestSection may have
	// replaced or consumed the intent.
	if c.pending != pending {
		c.mu.Unlock()
		return
	}
	c.pending = ""
	c.mu.Unlock()

	c.scroll(pending, ScrollOffset)
}

// ready reports whether the section's backing data is loaded and rendered.
func (c *ScrollCoordinator) ready(name Section) bool {
	snap := c.state.Snapshot()
	switch name {
	case SectionCatalog:
		return snap.Mode == ModeBrowsing && !snap.LoadingCatalog && len(snap.Catalog) > 0
	case SectionSearch:
		return snap.Mode == ModeSearching && !snap.LoadingSearch
	default:
		return false
	}
}
