// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package session owns the anonymous session identity: durable storage of
// the identifier and idempotent registration against the remote API. The
// store is an explicit injected capability; there is no ambient singleton.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when no identifier has been saved.
var ErrNotFound = errors.New("session: identifier not found")

// Store is the durable storage capability for the session identifier.
// Implementations must return ErrNotFound from Load before the first Save.
type Store interface {
	// Load returns the persisted identifier.
	Load(ctx context.Context) (string, error)

	// Save persists the identifier. Save overwrites any previous value.
	Save(ctx context.Context, id string) error
}

// MemoryStore is an in-memory Store, used in tests and as a fallback when
// no durable directory is available.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored identifier or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" {
		return "", ErrNotFound
	}
	return s.id, nil
}

// Save stores the identifier.
func (s *MemoryStore) Save(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}
