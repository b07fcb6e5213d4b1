package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/engine"
)

var filterCmd = &cobra.Command{
	Use:   "filter [CATEGORY]",
	Short: "Show or select the category filter",
	Long: `Without arguments, print the selected category filter.
With a CATEGORY, select it ("all" clears the filter). The selection persists across runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			fmt.Fprintln(cmd.OutOrStdout(), rt.Service.Filter())
			return nil
		}

		return withEngine(cmd, func(ctx context.Context, e *engine.Engine) error {
			if err := e.SetFilter(ctx, args[0]); err != nil {
				return err
			}
			current, err := e.Filter(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filter set to %q\n", current)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
}
