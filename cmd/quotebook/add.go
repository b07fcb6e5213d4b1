package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/engine"
)

var (
	addText     string
	addCategory string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a quote",
	Long:  `Add a quote to the collection. It is pushed to the remote on the next sync (or at once with remote.push_on_add).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine.Engine) error {
			_, err := e.Add(ctx, addText, addCategory)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addText, "text", "", "Quote text")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Quote category")
}
