package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/core"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories in order of first appearance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		selected := rt.Service.Filter()
		out := cmd.OutOrStdout()
		for _, c := range append([]string{core.FilterAll}, rt.Service.Categories()...) {
			marker := " "
			if c == selected {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
