// Package main provides the search engine CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mercadito/search-engine/internal/config"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/store"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "search-cli",
	Short: "Search engine CLI for query analysis and catalog administration",
	Long: `Search engine CLI provides commands for the query-understanding pipeline.

Use this tool to:
- Analyze natural-language product queries end to end
- Seed the product and synonym catalog from YAML files
- Inspect store statistics

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		level := cfg.Observability.LogLevel
		if outputJSON {
			logFormat = "json"
		}
		if !verbose {
			level = "warn"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      logFormat,
			ServiceName: "search-cli",
		})

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCatalog opens the configured store, falling back to the builtin
// catalog when the database is unreachable.
func openCatalog(ctx context.Context) (store.Catalog, func()) {
	db, err := store.Open(ctx, store.OpenConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.DatabaseDSN(),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("store unavailable, using builtin catalog")
		return store.Builtin(), func() {}
	}

	sqlStore := store.NewSQLStore(db)
	if err := sqlStore.EnsureSchema(ctx); err != nil {
		logger.Warn().Err(err).Msg("schema setup failed, using builtin catalog")
		_ = db.Close()
		return store.Builtin(), func() {}
	}
	return sqlStore, func() { _ = db.Close() }
}
