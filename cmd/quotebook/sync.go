package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/engine"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync cycle against the remote",
	Long: `Push quotes added locally, then fetch the remote collection and merge in the
quotes that are not already present. Local quotes are never modified or removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine.Engine) error {
			res, err := e.SyncNow(ctx)
			if errors.Is(err, engine.ErrNoRemote) {
				return fmt.Errorf("%w: set remote.url in quotebook.yaml or QUOTEBOOK_REMOTE_URL", err)
			}
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			if res.Added == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Already up to date.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
