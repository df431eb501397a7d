package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jineeshjohn/market-movers/internal/universe"
)

var symbolsLimit int

// symbolsCmd searches the universe by ticker prefix
var symbolsCmd = &cobra.Command{
	Use:   "symbols [prefix]",
	Short: "List universe tickers matching a prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", 20, "maximum results")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	u, err := universe.Load(cfg.Report.UniverseFile)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	index, err := universe.NewIndex(u.Tickers())
	if err != nil {
		return fmt.Errorf("build symbol index: %w", err)
	}
	defer index.Close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	matches, err := index.Search(prefix, symbolsLimit)
	if err != nil {
		return err
	}

	total, _ := index.Count()
	fmt.Fprintf(out, "%s: %d of %d tickers\n", u.Name, len(matches), total)
	for _, s := range matches {
		fmt.Fprintf(out, "   • %s\n", s)
	}
	return nil
}
