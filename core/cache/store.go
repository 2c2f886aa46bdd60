package cache

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/sqlite"
)

// Store is a byte-oriented key/value store for encoded oracle results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memory is a Store backed by an LRU.
type Memory struct {
	lru *LRU[[]byte]
}

// NewMemory returns an in-memory store holding at most maxEntries results.
func NewMemory(maxEntries int) *Memory {
	cfg := DefaultConfig()
	cfg.MaxEntries = maxEntries
	return NewMemoryWithConfig(cfg)
}

// NewMemoryWithConfig returns an in-memory store using cfg.
func NewMemoryWithConfig(cfg Config) *Memory {
	return &Memory{lru: NewLRU(cfg, func(b []byte) int64 { return int64(len(b)) })}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.lru.Put(key, append([]byte(nil), value...))
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Stats returns the LRU statistics.
func (m *Memory) Stats() Stats { return m.lru.Stats() }

const schema = `CREATE TABLE IF NOT EXISTS oracle_results (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLite is a Store persisted in a SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("init", path, err)
	}
	return &SQLite{db: db, path: path}, nil
}

// OpenSQLiteReadOnly opens an existing cache database without write access.
func OpenSQLiteReadOnly(ctx context.Context, path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewIO("open", path, err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM oracle_results WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewIO("read", s.path, err)
	}
	return value, true, nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oracle_results (key, value, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return errors.NewIO("write", s.path, err)
	}
	return nil
}

// Len returns the number of stored results.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM oracle_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }

// Tiered checks a fast store before a slow one and fills the fast store on a
// slow hit. Writes go to both.
type Tiered struct {
	Fast, Slow Store
}

// Get implements Store.
func (t Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, err := t.Fast.Get(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok, err := t.Slow.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := t.Fast.Put(ctx, key, v); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Put implements Store.
func (t Tiered) Put(ctx context.Context, key string, value []byte) error {
	if err := t.Fast.Put(ctx, key, value); err != nil {
		return err
	}
	return t.Slow.Put(ctx, key, value)
}

// Close implements Store.
func (t Tiered) Close() error {
	return stderrors.Join(t.Fast.Close(), t.Slow.Close())
}
