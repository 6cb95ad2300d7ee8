package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mercadito/search-engine/internal/analyzer"
	"github.com/mercadito/search-engine/internal/cache"
)

var analyzeLimit int

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Run a natural-language query through the full pipeline",
	Long: `Analyze corrects, tokenizes, and interprets a Spanish product query,
then prints the structured filters and ranked recommendations.

Examples:
  search-cli analyze "bebidas sin azucar baratas"
  search-cli analyze "koka kola" --limit 3
  search-cli analyze "botanas picantes" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "l", 0, "maximum recommendations (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	catalog, closeStore := openCatalog(ctx)
	defer closeStore()

	service := analyzer.New(logger, catalog, catalog, cfg, cache.NewMemoryClient(cfg.Cache.MaxEntries))

	var sp *spinner.Spinner
	if !outputJSON {
		sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Suffix = " analyzing query..."
		sp.Start()
	}

	result := service.Analyze(ctx, query, analyzeLimit)

	if sp != nil {
		sp.Stop()
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printResult(result)
	return nil
}

func printResult(result analyzer.Result) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Printf("Query: %s\n", result.Query)

	if result.Corrections.Applied {
		yellow := color.New(color.FgYellow)
		yellow.Printf("Corrected: %s\n", result.Corrections.CorrectedQuery)
		for _, ch := range result.Corrections.Changes {
			dim.Printf("  %s -> %s (%.2f)\n", ch.From, ch.To, ch.Confidence)
		}
	}

	if result.FilterExpression != "" {
		fmt.Printf("Filters: %s\n", result.FilterExpression)
	}

	fmt.Println()
	if len(result.Recommendations) == 0 {
		color.New(color.FgRed).Println(result.Message)
		return
	}

	bold.Printf("%-4s %-32s %-12s %8s %7s\n", "#", "Product", "Category", "Price", "Score")
	for i, rec := range result.Recommendations {
		fmt.Printf("%-4d %-32s %-12s %8.2f %7.2f\n",
			i+1, rec.Product.Name, rec.Product.Category, rec.Product.Price, rec.Score)
		dim.Printf("     %s\n", strings.Join(rec.Reasons, ", "))
	}
	dim.Printf("\n%d results in %.1fms\n", len(result.Recommendations), result.ElapsedMS)
}
