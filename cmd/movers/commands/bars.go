package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jineeshjohn/market-movers/internal/contracts"
)

var (
	barsInterval string
	barsDays     int
)

// barsCmd prints raw provider bars, for checking a symbol before reporting on it
var barsCmd = &cobra.Command{
	Use:   "bars [symbol]",
	Short: "Print raw bars from the configured provider",
	Long: `Fetches bars for one symbol and prints them as returned by the provider.

Intervals: day (1d), week (1wk), minute (1m).

Example:
  go run ./cmd/movers bars CCL.NS --days 10
  go run ./cmd/movers bars ^NSEI --interval 1m --days 1`,
	Args: cobra.ExactArgs(1),
	RunE: runBars,
}

func init() {
	rootCmd.AddCommand(barsCmd)
	barsCmd.Flags().StringVarP(&barsInterval, "interval", "i", "1d", "bar interval")
	barsCmd.Flags().IntVarP(&barsDays, "days", "d", 7, "lookback in days")
}

func runBars(cmd *cobra.Command, args []string) error {
	interval, err := contracts.ParseInterval(barsInterval)
	if err != nil {
		return err
	}
	if barsDays < 1 {
		return fmt.Errorf("--days must be >= 1")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	symbol := args[0]
	window := contracts.LastDays(time.Now(), barsDays)
	series, err := a.fetcher.Fetch(ctx, symbol, window.Start, window.End, interval)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintHeader(fmt.Sprintf("%s · %s · %s", symbol, interval, a.cfg.Provider.Name))
	if series.Len() == 0 {
		PrintWarning("No bars in range")
		return nil
	}

	layout := "2006-01-02"
	if interval == contracts.IntervalMinute {
		layout = "2006-01-02 15:04"
	}

	widths := []int{16, 10, 10, 10, 10, 12}
	PrintTableHeader([]string{"Time", "Open", "High", "Low", "Close", "Volume"}, widths)
	for _, b := range series.Bars {
		PrintTableRow([]string{
			b.Timestamp.Format(layout),
			formatPrice(b.Open),
			formatPrice(b.High),
			formatPrice(b.Low),
			formatPrice(b.Close),
			fmt.Sprintf("%d", b.Volume),
		}, widths)
	}

	fmt.Fprintln(out)
	PrintSuccess(fmt.Sprintf("%d bars", series.Len()))
	return nil
}
