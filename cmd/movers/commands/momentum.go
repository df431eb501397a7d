package commands

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jineeshjohn/market-movers/pkg/config"
)

var (
	momentumTop int
	momentumOut string
)

// momentumCmd prints the weekly momentum ranking for the universe
var momentumCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Rank the universe by weekly momentum",
	Long: `Fetches weekly bars for every symbol in the universe and prints:
  - top movers by week-over-week close change (%)
  - top last-week returns
  - top previous-week returns

Example:
  go run ./cmd/movers momentum --top 5
  go run ./cmd/movers momentum --out momentum.html`,
	RunE: runMomentum,
}

func init() {
	rootCmd.AddCommand(momentumCmd)
	momentumCmd.Flags().IntVar(&momentumTop, "top", 0, "rows per table (overrides TOP_K)")
	momentumCmd.Flags().StringVarP(&momentumOut, "out", "o", "", "write the HTML report to this file")
}

func runMomentum(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if momentumTop > 0 {
			cfg.Report.TopK = momentumTop
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	rep, err := a.builder.MomentumReport(ctx, a.universe)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintHeader(fmt.Sprintf("Weekly momentum · %s", rep.Universe))
	PrintKeyValue("Symbols", fmt.Sprintf("%d", rep.Total), 8)
	PrintKeyValue("Failed", fmt.Sprintf("%d", rep.Failed), 8)
	PrintKeyValue("Ranked", fmt.Sprintf("%d", len(rep.Momentum)), 8)
	fmt.Fprintln(out)

	widths := []int{16, 12, 12, 10}
	PrintTableHeader([]string{"Symbol", "Week -2", "Week -1", "Change"}, widths)
	for _, m := range rep.Momentum {
		PrintTableRow([]string{m.Symbol, formatPrice(m.Week1Close), formatPrice(m.Week2Close), formatPercent(m.Delta)}, widths)
	}

	fmt.Fprintln(out)
	widths = []int{16, 12, 12}
	PrintTableHeader([]string{"Symbol", "Last week", "Prev week"}, widths)
	for _, r := range rep.LastWeekTop {
		PrintTableRow([]string{r.Symbol, formatPercent(r.LastWeek), formatPercent(r.PrevWeek)}, widths)
	}

	fmt.Fprintln(out)
	PrintTableHeader([]string{"Symbol", "Prev week", "Last week"}, widths)
	for _, r := range rep.PrevWeekTop {
		PrintTableRow([]string{r.Symbol, formatPercent(r.PrevWeek), formatPercent(r.LastWeek)}, widths)
	}

	if momentumOut != "" {
		var buf bytes.Buffer
		if err := a.renderer.RenderMomentum(&buf, rep); err != nil {
			return err
		}
		if err := os.WriteFile(momentumOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", momentumOut, err)
		}
		fmt.Fprintln(out)
		PrintSuccess(fmt.Sprintf("Wrote %s", momentumOut))
	}

	fmt.Fprintln(out)
	PrintSuccess(fmt.Sprintf("Completed in %.2fs", time.Since(start).Seconds()))
	return nil
}
