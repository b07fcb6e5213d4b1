package main

import (
	"encoding/json"
	"strings"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the store, collection and sync engine as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		report := map[string]any{
			"version": strings.TrimSpace(quotebook.Version),
		}
		for _, c := range []any{rt.Service, rt.Engine, rt.Slots()} {
			i, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			key := "component"
			if named, ok := c.(introspection.Component); ok {
				key = named.ComponentType()
			}
			report[key] = i.State()
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
