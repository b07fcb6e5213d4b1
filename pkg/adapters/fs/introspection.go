package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// SlotsState exposes internal state for observability.
type SlotsState struct {
	Path      string     `json:"path"`
	ReadOnly  bool       `json:"read_only"`
	Writes    int        `json:"writes"`
	LastWrite *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Slots) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SlotsState{
		Path:      s.Path,
		ReadOnly:  s.config.ReadOnly,
		Writes:    s.writes,
		LastWrite: s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *Slots) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Slots)(nil)
var _ introspection.Component = (*Slots)(nil)

func (s *Slots) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.writes++
	s.lastWrite = &now
}
