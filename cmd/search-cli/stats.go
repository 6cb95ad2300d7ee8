package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show product and synonym counts for the configured store",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	catalog, closeStore := openCatalog(ctx)
	defer closeStore()

	stats, err := catalog.Stats(ctx)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}

	bold := color.New(color.Bold)
	bold.Println("Store statistics")
	fmt.Printf("  products:   %d\n", stats.ProductCount)
	fmt.Printf("  synonyms:   %d\n", stats.SynonymCount)
	fmt.Printf("  categories: %s\n", strings.Join(stats.Categories, ", "))
	return nil
}
