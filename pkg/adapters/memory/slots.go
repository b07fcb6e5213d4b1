// Package memory provides a process-local slot backend.
// It backs the session slot and is handy for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/quotebook/pkg/core"
)

// Slots implements core.Slots in memory.
type Slots struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewSlots creates an empty in-memory backend.
func NewSlots() *Slots {
	return &Slots{values: make(map[string][]byte)}
}

// Get implements core.Slots.
func (s *Slots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements core.Slots.
func (s *Slots) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Initialize implements core.Slots.
func (s *Slots) Initialize(ctx context.Context) error { return nil }

// ComponentType implements introspection.Component.
func (s *Slots) ComponentType() string { return "memory" }

var _ core.Slots = (*Slots)(nil)
