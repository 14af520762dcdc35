// Package kv implements a namespaced key-value store on top of the _kv
// bookkeeping table. All operations take a types.Querier, so writes
// participate in whatever transaction the caller is running.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.hackfix.me/reflow/db/types"
)

// Store provides access to the keys of a single namespace. Multiple stores
// with different namespaces can share the same underlying table without
// interfering with each other.
type Store struct {
	namespace string
}

// NewStore creates a key-value store scoped to the given namespace.
func NewStore(namespace string) *Store {
	return &Store{namespace: namespace}
}

// Get returns the value stored under key, or def if the key doesn't exist.
func (s *Store) Get(ctx context.Context, d types.Querier, key, def string) (string, error) {
	var value string
	err := d.QueryRowContext(ctx,
		`SELECT value FROM _kv WHERE key = ?`, s.key(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed reading key '%s': %w", s.key(key), err)
	}

	return value, nil
}

// Put stores value under key, overwriting any existing value.
func (s *Store) Put(ctx context.Context, d types.Querier, key, value string) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO _kv (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		s.key(key), value)
	if err != nil {
		return fmt.Errorf("failed writing key '%s': %w", s.key(key), err)
	}

	return nil
}

// Delete removes key from the store. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, d types.Querier, key string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM _kv WHERE key = ?`, s.key(key))
	if err != nil {
		return fmt.Errorf("failed deleting key '%s': %w", s.key(key), err)
	}

	return nil
}

// All returns all entries in this store's namespace, keyed by their
// namespace-relative names.
func (s *Store) All(ctx context.Context, d types.Querier) (map[string]string, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT key, value FROM _kv WHERE key LIKE ?`,
		fmt.Sprintf("%s:%%", s.namespace))
	if err != nil {
		return nil, fmt.Errorf("failed reading namespace '%s': %w", s.namespace, err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			return nil, types.ScanError{ModelName: "kv entry", Err: err}
		}
		entries[strings.TrimPrefix(key, s.namespace+":")] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading namespace '%s': %w", s.namespace, err)
	}

	return entries, nil
}

func (s *Store) key(k string) string {
	return fmt.Sprintf("%s:%s", s.namespace, k)
}
