package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Scout - microcap opportunity scanner and sizing committee",
	Long: `Scout scans a ticker universe for trading opportunities, aggregates
independent analyst opinions into a consensus, and sizes positions through
a three-posture risk committee.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout api
  go run ./cmd/scout scan
  go run ./cmd/scout analyze APLD --portfolio-value 100000
  go run ./cmd/scout monitor
  go run ./cmd/scout status`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
