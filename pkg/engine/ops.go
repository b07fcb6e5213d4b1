package engine

import (
	"context"

	"github.com/aretw0/quotebook/pkg/core"
)

// Add validates and appends a record. The service queues it in its
// persisted outbox for the next push.
func (e *Engine) Add(ctx context.Context, text, category string) (core.Record, error) {
	return call(ctx, e, func(lctx context.Context) (core.Record, error) {
		r, err := e.svc.Add(lctx, text, category)
		if err != nil {
			return r, err
		}
		e.stats.setOutbox(e.svc.PendingLen())
		if e.cfg.PushOnAdd {
			e.flushOutbox(lctx)
		}
		return r, nil
	})
}

// Import decodes a file payload and merges its records.
func (e *Engine) Import(ctx context.Context, format string, data []byte) (core.MergeResult, error) {
	return call(ctx, e, func(lctx context.Context) (core.MergeResult, error) {
		return e.svc.Import(lctx, format, data)
	})
}

// Export renders the collection.
func (e *Engine) Export(ctx context.Context, format string) ([]byte, error) {
	return call(ctx, e, func(context.Context) ([]byte, error) {
		return e.svc.Export(format)
	})
}

// Random draws a record. An empty filter uses the selected one.
// The boolean is false when no record matches.
func (e *Engine) Random(ctx context.Context, filter string) (core.Record, bool, error) {
	type pick struct {
		r  core.Record
		ok bool
	}
	p, err := call(ctx, e, func(lctx context.Context) (pick, error) {
		r, ok := e.svc.Random(lctx, filter)
		return pick{r, ok}, nil
	})
	return p.r, p.ok, err
}

// SetFilter selects and persists a category filter.
func (e *Engine) SetFilter(ctx context.Context, value string) error {
	_, err := call(ctx, e, func(lctx context.Context) (struct{}, error) {
		return struct{}{}, e.svc.SetFilter(lctx, value)
	})
	return err
}

// Filter returns the selected category filter.
func (e *Engine) Filter(ctx context.Context) (string, error) {
	return call(ctx, e, func(context.Context) (string, error) {
		return e.svc.Filter(), nil
	})
}

// Categories returns the category index.
func (e *Engine) Categories(ctx context.Context) ([]string, error) {
	return call(ctx, e, func(context.Context) ([]string, error) {
		return e.svc.Categories(), nil
	})
}

// Records lists the records in a category ("" or core.FilterAll for all).
func (e *Engine) Records(ctx context.Context, filter string) ([]core.Record, error) {
	return call(ctx, e, func(context.Context) ([]core.Record, error) {
		return e.svc.Records(filter), nil
	})
}

// ServiceState returns the service's introspection state, read on the loop.
func (e *Engine) ServiceState(ctx context.Context) (any, error) {
	return call(ctx, e, func(context.Context) (any, error) {
		return e.svc.State(), nil
	})
}
