package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutlab/scout/internal/contracts"
)

// committeeCmd represents the committee command
var committeeCmd = &cobra.Command{
	Use:   "committee",
	Short: "Run sizing debates and inspect posture stats",
	Long: `Run a position-sizing debate for a recommendation you supply, or
inspect the posture counters.

Example:
  go run ./cmd/scout committee debate --ticker APLD --action BUY \
    --target-price 21.85 --confidence 0.72 --portfolio-value 100000
  go run ./cmd/scout committee stats`,
}

var debateCmd = &cobra.Command{
	Use:   "debate",
	Short: "Run a sizing debate",
	RunE:  runDebate,
}

var committeeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show posture win/debate counters",
	RunE:  runCommitteeStats,
}

var (
	debateTicker     string
	debateAction     string
	debateTarget     float64
	debateConfidence float64
	debateReasoning  string
	debatePortfolio  float64
	debateExposure   float64
)

func init() {
	rootCmd.AddCommand(committeeCmd)
	committeeCmd.AddCommand(debateCmd)
	committeeCmd.AddCommand(committeeStatsCmd)

	debateCmd.Flags().StringVar(&debateTicker, "ticker", "", "ticker symbol (required)")
	debateCmd.Flags().StringVar(&debateAction, "action", "BUY", "action: BUY, SELL, HOLD, ADD, TRIM")
	debateCmd.Flags().Float64Var(&debateTarget, "target-price", 0, "target price (required)")
	debateCmd.Flags().Float64Var(&debateConfidence, "confidence", 0.70, "recommendation confidence, 0 to 1")
	debateCmd.Flags().StringVar(&debateReasoning, "reasoning", "", "recommendation reasoning text")
	debateCmd.Flags().Float64Var(&debatePortfolio, "portfolio-value", 0, "portfolio value in dollars (required)")
	debateCmd.Flags().Float64Var(&debateExposure, "sector-exposure", 0, "current sector exposure fraction")
}

func runDebate(cmd *cobra.Command, args []string) error {
	if debateTicker == "" {
		return fmt.Errorf("--ticker is required")
	}
	action := contracts.Action(strings.ToUpper(debateAction))
	if !action.Valid() {
		return fmt.Errorf("invalid --action %q", debateAction)
	}
	if debatePortfolio <= 0 {
		return fmt.Errorf("--portfolio-value must be positive")
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	result := d.committee.Debate(context.Background(), contracts.Recommendation{
		Ticker:      strings.ToUpper(debateTicker),
		Action:      action,
		TargetPrice: debateTarget,
		Confidence:  debateConfidence,
		Reasoning:   debateReasoning,
	}, contracts.PortfolioContext{
		PortfolioValue: debatePortfolio,
		SectorExposure: debateExposure,
	})

	if result.Degraded {
		fmt.Println("Degraded result: target price must be positive.")
		return nil
	}

	fmt.Printf("=== %s %s ===\n", result.Action, result.Ticker)
	for _, p := range []contracts.Proposal{result.Seeking, result.Neutral, result.Conservative} {
		fmt.Printf("  %-18s %6d shares (%.1f%%), %.0f%% stop\n",
			p.Posture, p.ProposedQty, p.PositionPct, p.StopLossPct)
	}
	fmt.Printf("\nResolution (%s, won by %s): %d shares, stop at $%.2f (%.0f%%)\n",
		result.ResolvedBy, result.Winner, result.ConsensusQty, result.StopLossPrice, result.StopLossPct)
	fmt.Println(result.Reasoning)

	return nil
}

func runCommitteeStats(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	for name, stats := range d.committee.Stats() {
		fmt.Printf("%-18s %d wins / %d debates (%.1f%%)\n",
			name, stats.Wins, stats.Debates, stats.WinRate())
	}

	return nil
}
