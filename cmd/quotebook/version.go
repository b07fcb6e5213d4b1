package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quotebook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quotebook version %s\n", strings.TrimSpace(quotebook.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
