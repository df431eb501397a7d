package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	chartSymbol string
	chartOut    string
)

// chartCmd renders the opening-window chart to a PNG file
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the 09:15-09:20 one-minute chart as PNG",
	Long: `Fetches one-minute bars for the last five days, keeps the opening window
in the chart timezone and writes an 800x400 PNG line chart.

Example:
  go run ./cmd/movers chart
  go run ./cmd/movers chart --symbol RELIANCE.NS --out reliance.png`,
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartSymbol, "symbol", "s", "", "ticker (defaults to CHART_SYMBOL)")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "nifty-morning.png", "output PNG path")
}

func runChart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := chartSymbol
	if symbol == "" {
		symbol = a.cfg.Report.ChartSymbol
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Create(chartOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", chartOut, err)
	}

	if err := a.charts.Generate(ctx, f, symbol); err != nil {
		f.Close()
		os.Remove(chartOut)
		PrintError(err.Error())
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", chartOut, err)
	}

	PrintSuccess(fmt.Sprintf("Chart saved as %s", chartOut))
	return nil
}
