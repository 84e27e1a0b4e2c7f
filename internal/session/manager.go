// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinescout/internal/logging"
)

// Registrar is the slice of the API the manager needs.
type Registrar interface {
	RegisterSession(ctx context.Context) (string, error)
}

// Manager owns the anonymous session identifier. The identifier is created
// lazily on first need and never mutated afterwards within a client
// lifetime. Registration failures are substituted with a locally-generated
// identifier and never retried against the server.
type Manager struct {
	store     Store
	registrar Registrar

	mu sync.Mutex
	id string // cached after first resolution
}

// NewManager creates a session manager over the given store and registrar.
func NewManager(store Store, registrar Registrar) *Manager {
	return &Manager{store: store, registrar: registrar}
}

// EnsureSession returns the session identifier, resolving it on first call:
// persisted value if present, otherwise remote registration, otherwise a
// local fallback. Subsequent calls return the cached identifier and perform
// no network or storage work.
func (m *Manager) EnsureSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id != "" {
		return m.id, nil
	}

	id, err := m.store.Load(ctx)
	if err == nil {
		m.id = id
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("session store load failed: %w", err)
	}

	id, err = m.registrar.RegisterSession(ctx)
	if err != nil {
		// Local fallback. Not retried: a mixed identity (some interactions
		// under a server id, some under a local id) is worse than a purely
		// local one.
		id = localFallbackID()
		logging.Warn().Err(err).Str("user_id", id).Msg("session registration failed, using local identifier")
	}

	if err := m.store.Save(ctx, id); err != nil {
		logging.Err(err).Msg("failed to persist session identifier")
		// Keep going: the in-memory cache still makes EnsureSession
		// idempotent for this client lifetime.
	}

	m.id = id
	return id, nil
}

// localFallbackID generates a locally-unique identifier. The timestamp
// prefix keeps identifiers sortable for diagnostics; the uuid fragment
// guards against same-millisecond collisions across devices.
func localFallbackID() string {
	fragment := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("local-%d-%s", time.Now().UnixMilli(), fragment)
}
