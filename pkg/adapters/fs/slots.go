package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/quotebook/pkg/core"
)

// Config holds the configuration for the filesystem slot backend.
type Config struct {
	Path      string
	MustExist bool // fail Initialize instead of creating a missing Path
	ReadOnly  bool
	Logger    *slog.Logger
}

// Slots implements core.Slots with one file per slot under Config.Path.
// Every Put is an atomic rename, so a crash never leaves a half-written slot.
type Slots struct {
	Path   string
	config Config

	mu        sync.RWMutex
	writes    int
	lastWrite *time.Time
}

// NewSlots creates a new filesystem-backed slot store.
func NewSlots(config Config) *Slots {
	return &Slots{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the data directory exists.
func (s *Slots) Initialize(ctx context.Context) error {
	info, err := os.Stat(s.Path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("data path is not a directory: %s", s.Path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to stat data directory: %w", err)
	}

	if s.config.MustExist || s.config.ReadOnly {
		return fmt.Errorf("data path does not exist: %s", s.Path)
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if s.config.Logger != nil {
		s.config.Logger.Debug("created data directory", "path", s.Path)
	}
	return nil
}

// Get implements core.Slots.
func (s *Slots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.slotPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return data, true, nil
}

// Put implements core.Slots.
func (s *Slots) Put(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeFileAtomic(s.slotPath(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	s.recordWrite()
	return nil
}

// slotPath maps a slot key to its file. Slots holding JSON get a .json
// extension so they can be opened as-is; other slots are plain text.
func (s *Slots) slotPath(key string) string {
	name := key + ".txt"
	switch key {
	case core.SlotQuotes, core.SlotLastQuote, core.SlotOutbox:
		name = key + ".json"
	}
	return filepath.Join(s.Path, name)
}

var _ core.Slots = (*Slots)(nil)
