package database

import (
	"context"
	"database/sql"
	"errors"

	"tasklist/pkg/utils"
)

// KeyValueStore is the local storage the task collection is written to
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// SQLiteStore keeps key-value pairs in the kv_store table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database. EnsureSchema must have been called.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetItem returns the value stored under key; found is false when there is none
func (s *SQLiteStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	utils.Log("Read %d bytes from key %s", len(value), key)
	return value, true, nil
}

// SetItem replaces the value stored under key in a single statement
func (s *SQLiteStore) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, lastmodified) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, lastmodified = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return err
	}
	utils.Log("Wrote %d bytes to key %s", len(value), key)
	return nil
}

// RemoveItem deletes key; removing a missing key is not an error
func (s *SQLiteStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key)
	return err
}
