package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached scan and committee status",
	Long: `Print the latest cached scan summary, posture win rates, and recent
committee decisions.

Example:
  go run ./cmd/scout status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()

	fmt.Println("=== Latest scan ===")
	result, found, err := d.scans.Latest(ctx)
	switch {
	case err != nil:
		fmt.Printf("cache error: %v\n", err)
	case !found:
		fmt.Println("No scan cached. Run `scout scan` or start the monitor.")
	default:
		fmt.Printf("%s: %d opportunities from %d tickers (%d errors)\n",
			result.Stats.Timestamp.Format("2006-01-02 15:04:05"),
			result.Stats.OpportunitiesFound, result.Stats.TickersScanned, result.Stats.ErrorCount)
		for _, opp := range result.Opportunities {
			fmt.Printf("  %-6s %3d  %s\n", opp.Ticker, opp.Score, opp.Recommendation)
		}
	}

	fmt.Println("\n=== Posture stats ===")
	for name, stats := range d.committee.Stats() {
		fmt.Printf("  %-18s %d wins / %d debates (%.1f%%)\n",
			name, stats.Wins, stats.Debates, stats.WinRate())
	}

	fmt.Println("\n=== Recent decisions ===")
	decisions, err := d.history.Recent(ctx, 10)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(decisions) == 0 {
		fmt.Println("No decisions recorded.")
		return nil
	}
	for _, dec := range decisions {
		fmt.Printf("  %s  %-6s %-5s %6d shares, stop $%.2f (%s, won by %s)\n",
			dec.Timestamp.Format("01-02 15:04"), dec.Ticker, dec.Action,
			dec.ConsensusQty, dec.StopLossPrice, dec.ResolvedBy, dec.Winner)
	}

	return nil
}
