package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/quotebook/pkg/core"
)

// SyncNow runs a fetch+reconcile cycle and waits for its outcome. If a fetch
// is already in flight, the caller shares its result instead of starting another.
// Outstanding local records are pushed alongside.
func (e *Engine) SyncNow(ctx context.Context) (CycleResult, error) {
	reply := make(chan CycleResult, 1)
	if err := e.post(ctx, func(lctx context.Context) {
		e.startCycle(lctx, reply)
	}); err != nil {
		return CycleResult{}, err
	}

	select {
	case res := <-reply:
		return res, res.Err
	case <-ctx.Done():
		return CycleResult{}, ctx.Err()
	case <-e.done:
		select {
		case res := <-reply:
			return res, res.Err
		default:
			return CycleResult{}, ErrEngineStopped
		}
	}
}

// PushNow dispatches the outbox immediately and returns how many records were handed to the remote.
func (e *Engine) PushNow(ctx context.Context) (int, error) {
	return call(ctx, e, func(lctx context.Context) (int, error) {
		return e.flushOutbox(lctx), nil
	})
}

// startCycle runs on the loop. waiter, when non-nil, receives the cycle result.
func (e *Engine) startCycle(ctx context.Context, waiter chan CycleResult) {
	if waiter != nil {
		e.waiters = append(e.waiters, waiter)
	}
	if e.remote == nil {
		e.finishCycle(CycleResult{Err: ErrNoRemote})
		return
	}

	e.flushOutbox(ctx)

	if e.fetching {
		return
	}
	e.fetching = true

	id := uuid.NewString()
	e.logger.Debug("sync cycle started", "cycle", id)

	e.spawn(ctx, "fetch", func(tctx context.Context) event {
		candidates, err := e.remote.Fetch(tctx)
		return func(lctx context.Context) {
			e.reconcile(lctx, id, candidates, err)
		}
	})
}

// reconcile runs on the loop, against the collection as it is now.
func (e *Engine) reconcile(ctx context.Context, id string, candidates []core.Record, fetchErr error) {
	e.fetching = false
	res := CycleResult{ID: id}

	if fetchErr != nil {
		e.logger.Warn("sync fetch failed, retrying next cycle", "cycle", id, "error", fetchErr)
		res.Err = fetchErr
		e.finishCycle(res)
		return
	}

	merged, err := e.svc.Merge(ctx, core.SourceRemote, candidates)
	res.Added = merged.Added
	if err != nil {
		e.logger.Error("sync reconcile failed", "cycle", id, "error", err)
		res.Err = err
	} else {
		e.logger.Debug("sync cycle finished", "cycle", id, "candidates", len(candidates), "added", merged.Added)
	}
	e.finishCycle(res)
}

func (e *Engine) finishCycle(res CycleResult) {
	e.stats.recordCycle(res, time.Now())
	for _, w := range e.waiters {
		w <- res
	}
	e.waiters = nil
}

// flushOutbox hands outstanding local records to a push task. The outbox is
// cleared on dispatch: a failed push is logged, not retried. Records stay
// queued, across restarts too, until a remote is configured.
func (e *Engine) flushOutbox(ctx context.Context) int {
	if e.remote == nil || e.svc.PendingLen() == 0 {
		return 0
	}

	batch, err := e.svc.TakePending(ctx)
	if err != nil {
		e.logger.Warn("push deferred", "error", err)
		return 0
	}
	e.stats.setOutbox(0)

	e.spawn(ctx, "push", func(tctx context.Context) event {
		err := e.remote.Push(tctx, batch)
		if err != nil {
			e.logger.Warn("push failed", "records", len(batch), "error", err)
		} else {
			e.logger.Debug("pushed records", "records", len(batch))
		}
		e.stats.recordPush(len(batch), err)
		return nil
	})
	return len(batch)
}
