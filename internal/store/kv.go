// Package store provides a small SQLite-backed key/value store for client state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("store: key not found")

// KV is a persistent string key/value store.
type KV struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates the database at the given path and migrates it.
func Open(dbPath string, logger zerolog.Logger) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// One connection keeps WAL writes serialized from this process.
	db.SetMaxOpenConns(1)

	log := logging.For(logger, logging.ComponentStore)
	version, err := migrateUp(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str(logging.FieldPath, dbPath).Uint("schema_version", version).Msg("store opened")

	return &KV{db: db, log: log}, nil
}

// Close closes the database.
func (s *KV) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get %q: %w", key, err)
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// SetMany stores all pairs in a single transaction.
func (s *KV) SetMany(ctx context.Context, pairs map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range pairs {
		_, err := tx.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now)
		if err != nil {
			return fmt.Errorf("store: set %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// Delete removes the given keys. Missing keys are ignored.
func (s *KV) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", k); err != nil {
			return fmt.Errorf("store: delete %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Int(logging.FieldCount, len(keys)).Msg("keys deleted")
	return nil
}

// Keys returns all stored keys in sorted order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
