// Package sqlite stores slots in a single SQLite table using the pure-Go
// modernc.org/sqlite driver. Each Put is a single upsert statement and is
// therefore atomic.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/quotebook/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// Config holds the SQLite adapter settings.
type Config struct {
	// Path is the database file. Use ":memory:" for an in-memory database.
	Path string
	// ReadOnly rejects every Put with core.ErrReadOnly and never creates the file.
	ReadOnly bool
}

// Slots implements core.Slots on SQLite.
type Slots struct {
	mu     sync.RWMutex
	db     *sql.DB
	config Config
}

// Open opens (or, unless read-only, creates) the database at cfg.Path.
func Open(cfg Config) (*Slots, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", cfg.Path, err)
	}
	// A single connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)
	return &Slots{db: db, config: cfg}, nil
}

// Initialize creates the schema. In read-only mode it only checks that the
// database file exists.
func (s *Slots) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.ReadOnly {
		if s.config.Path == ":memory:" {
			return nil
		}
		if _, err := os.Stat(s.config.Path); err != nil {
			return fmt.Errorf("read-only database: %w", err)
		}
		return nil
	}

	if s.config.Path != ":memory:" {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("set WAL mode: %w", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Get implements core.Slots.
func (s *Slots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put implements core.Slots.
func (s *Slots) Put(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Slots) Close() error {
	return s.db.Close()
}

// ComponentType implements introspection.Component.
func (s *Slots) ComponentType() string { return "sqlite" }

var _ core.Slots = (*Slots)(nil)
