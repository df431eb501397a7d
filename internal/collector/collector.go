package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/httputil"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// Collector fans per-symbol fetches out over a bounded worker pool
// ⭐ SSOT: 종목별 병렬 수집은 이 패키지에서만
type Collector struct {
	fetcher  contracts.SeriesFetcher
	limiters []httputil.Limiter
	workers  int
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// NewCollector creates a new Collector instance
func NewCollector(fetcher contracts.SeriesFetcher, cfg Config, log *logger.Logger) *Collector {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Collector{
		fetcher: fetcher,
		workers: workers,
		logger:  log.WithField("module", "collector"),
	}
}

// WithLimiter adds a limiter every worker waits on before fetching
func (c *Collector) WithLimiter(l httputil.Limiter) *Collector {
	if l != nil {
		c.limiters = append(c.limiters, l)
	}
	return c
}

// SeriesResult is the outcome of one symbol fetch
type SeriesResult struct {
	Symbol string
	Series contracts.SymbolSeries
	Err    error
}

type job struct {
	index  int
	symbol string
}

type indexedResult struct {
	index  int
	result SeriesResult
}

// Collect fetches every symbol and returns one result per symbol in input order.
// Failures stay in SeriesResult.Err; an empty series counts as a FetchError.
func (c *Collector) Collect(ctx context.Context, symbols []string, window contracts.Window, interval contracts.Interval) []SeriesResult {
	results := make([]SeriesResult, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	workers := c.workers
	if workers > len(symbols) {
		workers = len(symbols)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol_count": len(symbols),
		"interval":     interval.String(),
		"from":         window.Start.Format("2006-01-02"),
		"to":           window.End.Format("2006-01-02"),
		"workers":      workers,
	}).Info("Starting collection")

	jobCh := make(chan job, len(symbols))
	resultCh := make(chan indexedResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.worker(ctx, workerID, jobCh, resultCh, window, interval)
		}(i)
	}

	for i, s := range symbols {
		jobCh <- job{index: i, symbol: s}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	failCount := 0
	for r := range resultCh {
		results[r.index] = r.result
		if r.result.Err != nil {
			failCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": len(symbols) - failCount,
		"failed":  failCount,
		"total":   len(symbols),
	}).Info("Collection completed")

	return results
}

// worker drains jobs until the channel closes. After cancellation it keeps
// draining so every symbol still gets a result.
func (c *Collector) worker(ctx context.Context, workerID int, jobCh <-chan job, resultCh chan<- indexedResult, window contracts.Window, interval contracts.Interval) {
	for j := range jobCh {
		res := SeriesResult{Symbol: j.symbol}

		if err := ctx.Err(); err != nil {
			res.Err = err
			resultCh <- indexedResult{index: j.index, result: res}
			continue
		}

		if err := c.wait(ctx); err != nil {
			res.Err = err
			resultCh <- indexedResult{index: j.index, result: res}
			continue
		}

		series, err := c.fetcher.Fetch(ctx, j.symbol, window.Start, window.End, interval)
		if err == nil && series.Len() == 0 {
			err = &contracts.FetchError{Symbol: j.symbol, Err: contracts.ErrEmptySeries}
		}
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"symbol": j.symbol,
			}).Warn("Failed to fetch series")
			res.Err = err
			resultCh <- indexedResult{index: j.index, result: res}
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"symbol": j.symbol,
			"count":  series.Len(),
		}).Debug("Fetched series")

		res.Series = series
		resultCh <- indexedResult{index: j.index, result: res}
	}
}

func (c *Collector) wait(ctx context.Context) error {
	for _, l := range c.limiters {
		if err := l.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait failed: %w", err)
		}
	}
	return nil
}
