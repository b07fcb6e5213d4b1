// Package lifecycle bridges quotebook notifications onto lifecycle event sources.
package lifecycle

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quotebook/pkg/core"
)

// Notice is a user-facing message emitted by the service.
type Notice struct {
	Message string
	At      time.Time
}

// String implements lifecycle.Event.
func (n Notice) String() string {
	return n.Message
}

// NoticeSource is a core.Notifier whose messages are emitted as lifecycle events.
// Notify never blocks; messages are dropped while the buffer is full.
type NoticeSource struct {
	in      chan Notice
	out     chan lifecycle.Event
	dropped atomic.Int64
}

// NewNoticeSource creates a source buffering up to size notices.
func NewNoticeSource(size int) *NoticeSource {
	if size <= 0 {
		size = 16
	}
	return &NoticeSource{
		in:  make(chan Notice, size),
		out: make(chan lifecycle.Event),
	}
}

// Notify implements core.Notifier.
func (s *NoticeSource) Notify(msg string) {
	select {
	case s.in <- Notice{Message: msg, At: time.Now()}:
	default:
		s.dropped.Add(1)
	}
}

// Dropped reports how many notices were discarded because nobody was reading.
func (s *NoticeSource) Dropped() int64 {
	return s.dropped.Load()
}

// Events implements lifecycle.Source. The channel is closed once ctx passed
// to Start is done.
func (s *NoticeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start implements lifecycle.Source.
func (s *NoticeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case n := <-s.in:
				select {
				case s.out <- n:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

var (
	_ core.Notifier    = (*NoticeSource)(nil)
	_ lifecycle.Source = (*NoticeSource)(nil)
)
