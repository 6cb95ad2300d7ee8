package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mercadito/search-engine/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Load products and synonyms from a YAML file into the store",
	Long: `Seed upserts the catalog from a YAML file. Existing products and
synonyms with the same name or term are updated, not duplicated.

Example:
  search-cli seed configs/catalog.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sf, err := store.LoadSeedFile(args[0])
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, store.OpenConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.DatabaseDSN(),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	total := len(sf.Products) + len(sf.Synonyms)
	var bar *progressbar.ProgressBar
	if !outputJSON {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("seeding catalog"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	onProgress := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := store.Seed(ctx, store.NewSQLStore(db), sf, onProgress); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	if outputJSON {
		fmt.Printf(`{"products":%d,"synonyms":%d}%s`, len(sf.Products), len(sf.Synonyms), "\n")
		return nil
	}
	color.New(color.FgGreen).Printf("✓ seeded %d products and %d synonyms\n", len(sf.Products), len(sf.Synonyms))
	return nil
}
