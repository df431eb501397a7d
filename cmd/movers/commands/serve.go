package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jineeshjohn/market-movers/internal/api"
	"github.com/jineeshjohn/market-movers/internal/api/handlers"
	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/config"
)

var (
	servePort          string
	serveWithScheduler bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP report server",
	Long: `Starts the HTTP server serving the HTML reports and chart.

Endpoints:
  GET /              open/close report (?symbol=CCL.NS)
  GET /momentum      weekly momentum report
  GET /chart.png     opening-window chart (?symbol=^NSEI)
  GET /api/symbols   symbol search (?q=TA&limit=10)
  GET /api/jobs      job statistics (with --with-scheduler)
  GET /health        health check

Example:
  go run ./cmd/movers serve
  go run ./cmd/movers serve --port 8080 --with-scheduler`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveWithScheduler, "with-scheduler", false, "run publish jobs in-process")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if servePort != "" {
			cfg.Port = servePort
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	index, err := universe.NewIndex(a.universe.Tickers())
	if err != nil {
		return fmt.Errorf("build symbol index: %w", err)
	}
	defer index.Close()

	h := api.Handlers{
		Report:  handlers.NewReportHandler(a.builder, a.renderer, a.universe, a.cfg.Report.DefaultSymbol, a.log),
		Chart:   handlers.NewChartHandler(a.charts, a.cfg.Report.ChartSymbol, a.log),
		Symbols: handlers.NewSymbolHandler(index, a.log),
	}

	if serveWithScheduler {
		sched, err := newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		h.Jobs = handlers.NewJobsHandler(sched)
	}

	server := api.New(a.cfg, a.log, api.NewRouter(h, a.log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(out, "\n🚀 Market movers listening on http://%s\n", displayAddr(a.cfg))
	PrintKeyValue("Provider", a.cfg.Provider.Name, 10)
	PrintKeyValue("Universe", fmt.Sprintf("%s (%d symbols)", a.universe.Name, len(a.universe.Symbols)), 10)
	PrintKeyValue("Scheduler", fmt.Sprintf("%t", serveWithScheduler), 10)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	fmt.Fprintln(out, "\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	fmt.Fprintln(out, "Server stopped")
	return nil
}

func displayAddr(cfg *config.Config) string {
	if cfg.Host == "" {
		return "0.0.0.0:" + cfg.Port
	}
	return cfg.Addr()
}
