// Package sessions maps opaque session tokens to user ids with expiry.
//
// The cache is ephemeral by contract: entries carry a TTL and nothing in
// it survives logical expiry. Badger's per-entry TTL does the janitoring.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

const tokenKeyPrefix = "auth_"

// Store resolves, creates, and revokes session tokens.
type Store interface {
	// Resolve returns the user id bound to a token, or "" when the token
	// is unknown or expired.
	Resolve(ctx context.Context, token string) (string, error)
	// Create binds a token to a user id for the given TTL.
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	// Destroy removes a token binding. Unknown tokens are not an error.
	Destroy(ctx context.Context, token string) error
	Alive() bool
	Close() error
}

// BadgerStore is a Store backed by an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// Open opens a session cache at dir. An empty dir opens an in-memory
// database, used by tests and throwaway setups.
func Open(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if strings.TrimSpace(dir) == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session cache: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}

	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey(token))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *BadgerStore) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(tokenKey(token), []byte(userID)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) Destroy(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey(token))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Alive reports whether the underlying database is usable.
func (s *BadgerStore) Alive() bool {
	return s != nil && s.db != nil && !s.db.IsClosed()
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func tokenKey(token string) []byte {
	return []byte(tokenKeyPrefix + token)
}
