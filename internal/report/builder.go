package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jineeshjohn/market-movers/internal/collector"
	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/internal/selection"
	"github.com/jineeshjohn/market-movers/internal/signals"
	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/config"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// Options are the report parameters
type Options struct {
	TopK                  int
	WeeklyLookbackDays    int
	OpenDiffLookbackYears int
}

// OptionsFromConfig reads report parameters from config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TopK:                  cfg.Report.TopK,
		WeeklyLookbackDays:    cfg.Report.WeeklyLookbackDays,
		OpenDiffLookbackYears: cfg.Report.OpenDiffLookbackYear,
	}
}

// Builder assembles reports: acquisition, metric, ranking
// ⭐ SSOT: 리포트 조립은 여기서만
type Builder struct {
	fetcher   contracts.SeriesFetcher
	collector *collector.Collector
	calc      *signals.MomentumCalculator
	opts      Options
	logger    *logger.Logger
	now       func() time.Time
}

// NewBuilder creates a report builder
func NewBuilder(fetcher contracts.SeriesFetcher, coll *collector.Collector, opts Options, log *logger.Logger) *Builder {
	return &Builder{
		fetcher:   fetcher,
		collector: coll,
		calc:      signals.NewMomentumCalculator(log),
		opts:      opts,
		logger:    log.WithField("module", "report"),
		now:       time.Now,
	}
}

// SymbolReport is the daily open/close table for one symbol
type SymbolReport struct {
	Symbol      string
	From        time.Time
	To          time.Time
	Rows        []contracts.BarDiff
	GeneratedAt time.Time
}

// MomentumReport is the weekly momentum view over a universe
type MomentumReport struct {
	Universe    string
	Momentum    []contracts.MomentumResult
	LastWeekTop []contracts.WeeklyReturns
	PrevWeekTop []contracts.WeeklyReturns
	TopK        int
	Total       int
	Failed      int
	GeneratedAt time.Time
}

// SymbolReport fetches daily bars over the lookback and ranks rows by close - open.
// Any error is returned to the caller unchanged in kind.
func (b *Builder) SymbolReport(ctx context.Context, symbol string) (*SymbolReport, error) {
	now := b.now()
	window := contracts.LastYears(now, b.opts.OpenDiffLookbackYears)

	series, err := b.fetcher.Fetch(ctx, symbol, window.Start, window.End, contracts.IntervalDay)
	if err != nil {
		return nil, err
	}

	rows := selection.Rank(signals.OpenCloseDiff(series), selection.ByDiff, 0)

	b.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"rows":   len(rows),
	}).Info("Built symbol report")

	return &SymbolReport{
		Symbol:      symbol,
		From:        window.Start,
		To:          window.End,
		Rows:        rows,
		GeneratedAt: now,
	}, nil
}

// MomentumReport fetches weekly bars once per ticker and derives momentum and
// weekly returns from the same series. Per-symbol failures become sentinels.
func (b *Builder) MomentumReport(ctx context.Context, u *universe.Universe) (*MomentumReport, error) {
	if u == nil {
		return nil, fmt.Errorf("momentum report: nil universe")
	}
	tickers := u.Tickers()
	if len(tickers) == 0 {
		return nil, fmt.Errorf("momentum report: universe %q is empty", u.Name)
	}

	now := b.now()
	window := contracts.LastDays(now, b.opts.WeeklyLookbackDays)
	fetched := b.collector.Collect(ctx, tickers, window, contracts.IntervalWeek)

	// A cancelled request leaves nothing worth rendering
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("momentum report: %w", err)
	}

	momentum := make([]contracts.MomentumResult, len(fetched))
	returns := make([]contracts.WeeklyReturns, len(fetched))
	failed := 0

	for i, f := range fetched {
		if f.Err != nil {
			momentum[i] = contracts.NewMomentumSentinel(f.Symbol)
			returns[i] = contracts.NewWeeklyReturnsSentinel(f.Symbol)
			failed++
			continue
		}

		m, mErr := b.calc.WeeklyMomentum(f.Series)
		r, rErr := b.calc.WeeklyReturns(f.Series)
		momentum[i] = m
		returns[i] = r
		if mErr != nil || rErr != nil {
			failed++
		}
	}

	report := &MomentumReport{
		Universe:    u.Name,
		Momentum:    selection.Rank(momentum, selection.ByDelta, 0),
		LastWeekTop: selection.Rank(returns, selection.ByLastWeek, b.opts.TopK),
		PrevWeekTop: selection.Rank(returns, selection.ByPrevWeek, b.opts.TopK),
		TopK:        b.opts.TopK,
		Total:       len(tickers),
		Failed:      failed,
		GeneratedAt: now,
	}

	b.logger.WithFields(map[string]interface{}{
		"universe": u.Name,
		"total":    report.Total,
		"failed":   report.Failed,
		"ranked":   len(report.Momentum),
	}).Info("Built momentum report")

	return report, nil
}
