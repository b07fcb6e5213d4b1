package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/pkg/codec"
	"github.com/aretw0/quotebook/pkg/engine"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import quotes from a JSON or YAML file",
	Long: `Merge the quotes of FILE into the collection. Quotes already present are skipped.
The file must be an array of {text, category} objects; anything else is rejected as a whole.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = formatFromPath(args[0])
		}

		return withEngine(cmd, func(ctx context.Context, e *engine.Engine) error {
			res, err := e.Import(ctx, format, data)
			if err != nil {
				return err
			}
			if res.Added == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing new to import.")
			}
			return nil
		})
	},
}

// formatFromPath maps a file extension onto a codec name.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec.FormatYAML
	default:
		return codec.FormatJSON
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: json or yaml (default: from the file extension)")
}
