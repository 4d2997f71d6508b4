package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutlab/scout/internal/analysts"
	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/internal/scanner"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run the full pipeline for one ticker",
	Long: `Fetch metrics, score the ticker, collect analyst opinions, build the
consensus, and (when actionable) size the position through the committee.

Example:
  go run ./cmd/scout analyze APLD --portfolio-value 100000
  go run ./cmd/scout analyze SOUN --portfolio-value 250000 --sector-exposure 0.2`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	portfolioValue float64
	sectorExposure float64
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&portfolioValue, "portfolio-value", 0, "portfolio value in dollars (required for sizing)")
	analyzeCmd.Flags().Float64Var(&sectorExposure, "sector-exposure", 0, "current exposure to the ticker's sector (0.2 = 20%)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()
	ticker := strings.ToUpper(args[0])

	metrics, err := d.provider.GetMetrics(ctx, ticker)
	if err != nil {
		return fmt.Errorf("fetch metrics for %s: %w", ticker, err)
	}

	score, signals := d.engine.Score(ticker, metrics)
	label := scanner.Recommendation(score)
	targetPrice := scanner.TargetPrice(metrics.Price, score)

	fmt.Printf("=== %s ===\n", ticker)
	fmt.Printf("Price: $%.2f (%+.1f%%)  Market cap: $%.0fM  Sector: %s\n",
		metrics.Price, metrics.PriceChangePct, metrics.MarketCap/1e6, metrics.Sector)
	fmt.Printf("Score: %d (%s)  Target: $%.2f\n", score, label, targetPrice)
	fmt.Printf("Signals: momentum %d, technical %d, fundamental %d, sentiment %d, sector %d\n\n",
		signals.Momentum, signals.Technical, signals.Fundamental, signals.Sentiment, signals.SectorMatch)

	opinions := analysts.Run(d.panel, ticker, metrics)
	fmt.Println("Analyst opinions:")
	for _, op := range opinions {
		fmt.Printf("  %-12s %-5s (%.2f)  %s\n", op.AgentID, op.Action, op.Confidence, op.Reasoning)
	}

	result := d.aggregator.Aggregate(opinions)
	fmt.Printf("\nConsensus: %s (confidence %.3f, agreement %.0f%%)\n",
		result.Action, result.FinalConfidence, result.AgreementRate*100)
	fmt.Println(result.Analysis)

	if !result.Actionable() {
		fmt.Println("\nConsensus is not actionable; sizing skipped.")
		return nil
	}
	if portfolioValue <= 0 {
		fmt.Println("\nPass --portfolio-value to size the position.")
		return nil
	}

	sizing := d.committee.Debate(ctx, contracts.Recommendation{
		Ticker:      ticker,
		Action:      result.Action,
		TargetPrice: targetPrice,
		Confidence:  result.FinalConfidence,
		Reasoning:   scanner.Reasoning(score, signals, metrics),
	}, contracts.PortfolioContext{
		PortfolioValue: portfolioValue,
		SectorExposure: sectorExposure,
	})

	fmt.Println("\nCommittee proposals:")
	for _, p := range []contracts.Proposal{sizing.Seeking, sizing.Neutral, sizing.Conservative} {
		fmt.Printf("  %-18s %6d shares (%.1f%%), %.0f%% stop\n",
			p.Posture, p.ProposedQty, p.PositionPct, p.StopLossPct)
	}
	fmt.Printf("\nResolution (%s, won by %s): %d shares, stop at $%.2f (%.0f%%)\n",
		sizing.ResolvedBy, sizing.Winner, sizing.ConsensusQty, sizing.StopLossPrice, sizing.StopLossPct)

	return nil
}
