// Package engine runs the remote sync cycle and serializes every access to
// the record collection through one event loop.
//
// The collection (core.Service) is not safe for concurrent use. Instead of
// locking it, the Engine owns a single goroutine (Run) that executes every
// user action and every network completion as a closure taken from a queue.
// Fetch and push requests run as independent tasks; their outcome is posted
// back onto the queue, so reconciliation always sees the collection as it is
// at merge time, including records added while the request was in flight.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quotebook/pkg/core"
)

// DefaultInterval is the sync cadence used when Config.Interval is zero.
const DefaultInterval = 30 * time.Second

var (
	// ErrEngineStopped is returned by calls made after Run has returned.
	ErrEngineStopped = errors.New("engine stopped")
	// ErrNoRemote is reported by sync cycles when no remote is configured.
	ErrNoRemote = errors.New("no remote configured")
)

// Remote is the transport used by sync cycles.
type Remote interface {
	// Fetch returns the translated candidates of one GET.
	Fetch(ctx context.Context) ([]core.Record, error)
	// Push sends records to the remote. The result is only logged.
	Push(ctx context.Context, records []core.Record) error
}

// Config tunes the engine.
type Config struct {
	// Interval between timer-driven sync cycles. Zero means DefaultInterval,
	// a negative value disables the timer (on-demand cycles only).
	Interval time.Duration
	// PushOnAdd pushes a record right after it is added instead of waiting for the next cycle.
	PushOnAdd bool
	// SyncOnStart runs one cycle as soon as Run starts.
	SyncOnStart bool
	// QueueSize bounds the event queue. Zero means 64.
	QueueSize int
	Logger    *slog.Logger
}

// CycleResult reports the outcome of one fetch+reconcile pass.
type CycleResult struct {
	ID    string
	Added int
	Err   error
}

type event func(ctx context.Context)

// Engine drives a core.Service from a single event loop.
type Engine struct {
	svc    *core.Service
	remote Remote
	cfg    Config
	logger *slog.Logger

	queue   chan event
	done    chan struct{}
	running atomic.Bool

	// Owned by the loop goroutine.
	fetching bool
	waiters  []chan CycleResult
	inflight int
	drainers []chan struct{}

	stats stats
}

// New creates an engine. remote may be nil, in which case sync cycles fail
// with ErrNoRemote and pushes are skipped.
func New(svc *core.Service, remote Remote, cfg Config) *Engine {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		svc:    svc,
		remote: remote,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan event, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	e.stats.status = "created"
	e.stats.state.Outbox = svc.PendingLen()
	return e
}

// Run executes the event loop until ctx is cancelled. On the way out it
// performs the final save of the collection; in-flight network tasks are
// abandoned.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine already running")
	}
	defer close(e.done)

	var tick <-chan time.Time
	if e.cfg.Interval > 0 {
		ticker := time.NewTicker(e.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	e.stats.setStatus("running")
	e.logger.Debug("engine started", "interval", e.cfg.Interval, "remote", e.remote != nil)

	if e.cfg.SyncOnStart {
		e.startCycle(ctx, nil)
	}

	for {
		select {
		case <-ctx.Done():
			return e.shutdown(ctx)
		case <-tick:
			e.startCycle(ctx, nil)
		case ev := <-e.queue:
			ev(ctx)
		}
	}
}

func (e *Engine) shutdown(ctx context.Context) error {
	e.stats.setStatus("stopped")
	for _, w := range e.waiters {
		w <- CycleResult{Err: ErrEngineStopped}
	}
	e.waiters = nil

	if n := e.svc.PendingLen(); n > 0 {
		e.logger.Info("unpushed records kept for the next run", "count", n)
	}

	if err := e.svc.Close(context.WithoutCancel(ctx)); err != nil {
		e.logger.Error("final save failed", "error", err)
		return fmt.Errorf("final save: %w", err)
	}
	e.logger.Debug("engine stopped")
	return nil
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// post enqueues an event for the loop. It gives up when ctx is cancelled or
// the loop has stopped.
func (e *Engine) post(ctx context.Context, ev event) error {
	select {
	case e.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineStopped
	}
}

// call runs fn on the loop goroutine and waits for its result.
func call[T any](ctx context.Context, e *Engine, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	reply := make(chan result, 1)

	var zero T
	if err := e.post(ctx, func(lctx context.Context) {
		v, err := fn(lctx)
		reply <- result{v, err}
	}); err != nil {
		return zero, err
	}

	select {
	case r := <-reply:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-e.done:
		select {
		case r := <-reply:
			return r.v, r.err
		default:
			return zero, ErrEngineStopped
		}
	}
}

// spawn runs fn as an independent task. The event fn returns, if any, is
// applied on the loop together with the task's completion bookkeeping.
func (e *Engine) spawn(ctx context.Context, name string, fn func(ctx context.Context) event) {
	e.inflight++
	lifecycle.Go(ctx, func(ctx context.Context) error {
		var then event
		defer func() {
			_ = e.post(ctx, func(lctx context.Context) {
				if then != nil {
					then(lctx)
				}
				e.taskDone()
			})
		}()
		then = fn(ctx)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		e.logger.Error("task panic", "task", name, "error", err)
	}))
}

func (e *Engine) taskDone() {
	e.inflight--
	if e.inflight > 0 {
		return
	}
	for _, d := range e.drainers {
		close(d)
	}
	e.drainers = nil
}

// Drain waits until every in-flight fetch and push task has completed, ctx
// is done, or the loop stops.
func (e *Engine) Drain(ctx context.Context) error {
	idle, err := call(ctx, e, func(context.Context) (chan struct{}, error) {
		c := make(chan struct{})
		if e.inflight == 0 {
			close(c)
		} else {
			e.drainers = append(e.drainers, c)
		}
		return c, nil
	})
	if err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return nil
	}
}
