package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a one-off universe scan",
	Long: `Scan the configured ticker universe and print qualifying
opportunities sorted by score.

Example:
  go run ./cmd/scout scan
  go run ./cmd/scout scan --json`,
	RunE: runScan,
}

var scanJSON bool

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the raw JSON result")
}

func runScan(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	result, err := d.scans.Run(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Scanned %d tickers in %s (%d filtered, %d errors)\n\n",
		result.Stats.TickersScanned, result.Stats.ScanTime,
		result.Stats.FilteredCount, result.Stats.ErrorCount)

	if len(result.Opportunities) == 0 {
		fmt.Println("No opportunities found.")
		return nil
	}

	fmt.Printf("%-6s %5s  %-11s %8s %8s  %s\n", "TICKER", "SCORE", "LABEL", "PRICE", "TARGET", "REASONING")
	for _, opp := range result.Opportunities {
		fmt.Printf("%-6s %5d  %-11s %8.2f %8.2f  %s\n",
			opp.Ticker, opp.Score, opp.Recommendation, opp.Price, opp.TargetPrice, opp.Reasoning)
	}

	return nil
}
