package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/quotebook"
	"github.com/aretw0/quotebook/internal/platform"
	"github.com/aretw0/quotebook/pkg/core"
	"github.com/aretw0/quotebook/pkg/engine"
)

// resolveDataDir picks the flag/config value, or the data dir of the enclosing root.
func resolveDataDir() (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return platform.DefaultDataDir(wd), nil
}

func runtimeOptions(cmd *cobra.Command) []quotebook.Option {
	out := cmd.OutOrStdout()
	opts := []quotebook.Option{
		quotebook.WithAdapter(cfg.Adapter),
		quotebook.WithLogger(slog.Default()),
		quotebook.WithNotifier(core.NotifierFunc(func(msg string) {
			fmt.Fprintln(out, msg)
		})),
		quotebook.WithInterval(cfg.Interval),
		quotebook.WithPushOnAdd(cfg.Remote.PushOnAdd),
		quotebook.WithSyncOnStart(cfg.Remote.SyncOnStart),
	}
	if cfg.Remote.URL != "" {
		opts = append(opts,
			quotebook.WithRemote(cfg.Remote.URL),
			quotebook.WithPushURL(cfg.Remote.PushURL),
			quotebook.WithRemoteSchema(cfg.Schema()),
			quotebook.WithRemoteTimeout(cfg.Remote.Timeout),
		)
	}
	return opts
}

// openRuntime opens the configured store. The engine is not running; the
// caller owns rt and must Close it.
func openRuntime(cmd *cobra.Command, extra ...quotebook.Option) (*quotebook.Runtime, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	rt, err := quotebook.Open(dir, append(runtimeOptions(cmd), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open quotebook at %s: %w", dir, err)
	}
	return rt, nil
}

// withEngine runs fn against a live engine, then waits for outstanding
// network tasks and stops the engine, which performs the final save.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, e *engine.Engine) error) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rt.Engine.Run(gctx)
	})

	fnErr := fn(ctx, rt.Engine)
	if err := rt.Engine.Drain(ctx); err != nil {
		slog.Warn("failed to wait for background tasks", "error", err)
	}
	cancel()

	if err := g.Wait(); err != nil {
		return err
	}
	return fnErr
}
