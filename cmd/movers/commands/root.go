package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movers",
	Short: "Market movers - NSE open/close and weekly momentum reports",
	Long: `Market Movers CLI

Fetches bars from Yahoo Finance, computes open/close differences and
weekly momentum, and renders ranked HTML reports and an opening-window chart.

Usage:
  go run ./cmd/movers [command]

Examples:
  go run ./cmd/movers serve
  go run ./cmd/movers momentum --top 10
  go run ./cmd/movers opendiff --symbol CCL.NS --out ccl.html
  go run ./cmd/movers chart --out nifty-morning.png
  go run ./cmd/movers scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
