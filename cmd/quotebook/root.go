package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quotebook/internal/config"
)

var (
	verbose bool
	cfgFile string
	dataDir string
	adapter string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quotebook",
	Short: "A categorized quote collection that syncs with a remote",
	Long: `Quotebook keeps a list of quotes, each tagged with a category, in a local store.
It draws random quotes, filters by category, imports and exports files, and
periodically merges in quotes from a remote HTTP collection without ever
overwriting local data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data") {
			loaded.DataDir = dataDir
		}
		if cmd.Flags().Changed("adapter") {
			loaded.Adapter = adapter
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
			level = slog.LevelInfo
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./quotebook.yaml or ~/.config/quotebook/quotebook.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default: <root>/.quotebook)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "fs", "Storage adapter: fs, sqlite or memory")
}
