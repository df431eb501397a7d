package commands

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	opendiffSymbol string
	opendiffOut    string
	opendiffRows   int
)

// opendiffCmd prints the open/close difference table for one symbol
var opendiffCmd = &cobra.Command{
	Use:   "opendiff",
	Short: "Daily close - open for one symbol, largest first",
	Long: `Fetches daily bars over the open/close lookback and ranks days by close - open.

Example:
  go run ./cmd/movers opendiff --symbol CCL.NS
  go run ./cmd/movers opendiff --symbol INFY.NS --rows 0 --out infy.html`,
	RunE: runOpenDiff,
}

func init() {
	rootCmd.AddCommand(opendiffCmd)
	opendiffCmd.Flags().StringVarP(&opendiffSymbol, "symbol", "s", "", "ticker (defaults to DEFAULT_SYMBOL)")
	opendiffCmd.Flags().StringVarP(&opendiffOut, "out", "o", "", "write the HTML report to this file")
	opendiffCmd.Flags().IntVar(&opendiffRows, "rows", 20, "rows to print, 0 = all")
}

func runOpenDiff(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := opendiffSymbol
	if symbol == "" {
		symbol = a.cfg.Report.DefaultSymbol
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := a.builder.SymbolReport(ctx, symbol)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintHeader(fmt.Sprintf("Open/close difference · %s", rep.Symbol))
	PrintKeyValue("From", rep.From.Format("2006-01-02"), 6)
	PrintKeyValue("To", rep.To.Format("2006-01-02"), 6)
	PrintKeyValue("Days", fmt.Sprintf("%d", len(rep.Rows)), 6)
	fmt.Fprintln(out)

	if len(rep.Rows) == 0 {
		PrintWarning("No bars in range")
	} else {
		widths := []int{12, 12, 12, 10}
		PrintTableHeader([]string{"Date", "Open", "Close", "Diff"}, widths)
		for i, row := range rep.Rows {
			if opendiffRows > 0 && i >= opendiffRows {
				break
			}
			PrintTableRow([]string{row.Date.Format("2006-01-02"), formatPrice(row.Open), formatPrice(row.Close), formatPrice(row.Diff)}, widths)
		}
	}

	if opendiffOut != "" {
		var buf bytes.Buffer
		if err := a.renderer.RenderSymbol(&buf, rep); err != nil {
			return err
		}
		if err := os.WriteFile(opendiffOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opendiffOut, err)
		}
		fmt.Fprintln(out)
		PrintSuccess(fmt.Sprintf("Wrote %s", opendiffOut))
	}

	return nil
}
