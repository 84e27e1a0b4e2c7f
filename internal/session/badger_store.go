// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// sessionKey is the fixed key under which the identifier is persisted.
const sessionKey = "session:user_id"

// BadgerStore implements Store using BadgerDB for durable storage across
// client restarts.
type BadgerStore struct {
	db *badger.DB
}

// Ensure BadgerStore implements Store
var _ Store = (*BadgerStore)(nil)

// NewBadgerStore creates a BadgerDB-backed session store.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Load reads the persisted identifier.
func (s *BadgerStore) Load(_ context.Context) (string, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get session id: %w", err)
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// Save persists the identifier.
func (s *BadgerStore) Save(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(sessionKey), []byte(id)); err != nil {
			return fmt.Errorf("set session id: %w", err)
		}
		return nil
	})
}
