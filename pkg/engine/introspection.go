package engine

import (
	"sync"
	"time"

	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Status       string     `json:"status"`
	Interval     string     `json:"interval"`
	Remote       bool       `json:"remote"`
	Cycles       int        `json:"cycles"`
	FailedCycles int        `json:"failed_cycles"`
	LastCycle    *time.Time `json:"last_cycle,omitempty"`
	LastCycleID  string     `json:"last_cycle_id,omitempty"`
	LastAdded    int        `json:"last_added"`
	LastError    string     `json:"last_error,omitempty"`
	Outbox       int        `json:"outbox"`
	Pushed       int        `json:"pushed"`
	PushFailures int        `json:"push_failures"`
}

// stats is written by the loop and tasks and read by State from any goroutine.
type stats struct {
	mu     sync.RWMutex
	state  EngineState
	status string
}

func (s *stats) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *stats) setOutbox(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Outbox = n
}

func (s *stats) recordCycle(res CycleResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cycles++
	s.state.LastCycle = &at
	s.state.LastCycleID = res.ID
	s.state.LastAdded = res.Added
	s.state.LastError = ""
	if res.Err != nil {
		s.state.FailedCycles++
		s.state.LastError = res.Err.Error()
	}
}

func (s *stats) recordPush(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.PushFailures++
		return
	}
	s.state.Pushed += n
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.stats.mu.RLock()
	defer e.stats.mu.RUnlock()

	st := e.stats.state
	st.Status = e.stats.status
	st.Interval = e.cfg.Interval.String()
	st.Remote = e.remote != nil
	return st
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
