package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/quotebook"
	"github.com/aretw0/quotebook/pkg/adapters/fs"
	qlifecycle "github.com/aretw0/quotebook/pkg/adapters/lifecycle"
)

var (
	serveInbox   string
	servePattern string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep the collection in sync until interrupted",
	Long: `Run the sync engine in the foreground: a cycle runs every interval (config: interval).
With --inbox, files matching --pattern dropped into the directory are imported as they appear.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// In the foreground, notices go to the log instead of stdout.
		notices := qlifecycle.NewNoticeSource(32)
		rt, err := openRuntime(cmd, quotebook.WithNotifier(notices))
		if err != nil {
			return err
		}
		defer rt.Close()

		inboxDir := cfg.Inbox.Dir
		if cmd.Flags().Changed("inbox") {
			inboxDir = serveInbox
		}
		pattern := cfg.Inbox.Pattern
		if cmd.Flags().Changed("pattern") {
			pattern = servePattern
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return rt.Engine.Run(gctx)
		})

		if err := notices.Start(gctx); err != nil {
			return err
		}
		g.Go(func() error {
			for ev := range notices.Events() {
				slog.Info(ev.String())
			}
			return nil
		})

		if inboxDir != "" {
			inbox := fs.NewInbox(fs.InboxConfig{
				Dir:     inboxDir,
				Pattern: pattern,
				Logger:  slog.Default(),
				ErrorHandler: func(err error) {
					slog.Error("inbox error", "error", err)
				},
			}, func(ctx context.Context, path string, data []byte) error {
				res, err := rt.Engine.Import(ctx, formatFromPath(path), data)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				slog.Info("inbox file imported", "path", path, "added", res.Added)
				return nil
			})
			g.Go(func() error {
				return inbox.Run(gctx)
			})
		}

		slog.Info("serving", "remote", cfg.Remote.URL, "interval", cfg.Interval, "inbox", inboxDir)
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveInbox, "inbox", "", "Directory to watch for quote files")
	serveCmd.Flags().StringVar(&servePattern, "pattern", "*.json", "Doublestar pattern of inbox files")
}
