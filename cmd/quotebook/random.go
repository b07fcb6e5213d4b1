package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/engine"
)

var randomCategory string

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random quote",
	Long:  `Draw a random quote from the selected category filter, or from --category when given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine.Engine) error {
			r, ok, err := e.Random(ctx, randomCategory)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No quotes in this category.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  [%s]\n", r.Text, r.Category)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)
	randomCmd.Flags().StringVar(&randomCategory, "category", "", "Category to draw from (default: the selected filter)")
}
