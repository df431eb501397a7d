package signals

import (
	"fmt"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// MinWeeklyBars is the shortest weekly series the weekly calculators accept.
// The last bar is the running week, so only bars before it are read.
const MinWeeklyBars = 5

// MomentumCalculator computes weekly momentum metrics
// ⭐ SSOT: 주간 모멘텀 계산은 여기서만
type MomentumCalculator struct {
	logger *logger.Logger
}

// NewMomentumCalculator creates a new momentum calculator
func NewMomentumCalculator(log *logger.Logger) *MomentumCalculator {
	return &MomentumCalculator{
		logger: log.WithField("module", "signals"),
	}
}

// WeeklyMomentum compares the closes two weeks and one week ago.
// On failure it returns the sentinel together with the cause; it never panics.
func (c *MomentumCalculator) WeeklyMomentum(series contracts.SymbolSeries) (contracts.MomentumResult, error) {
	n := series.Len()
	if n < MinWeeklyBars {
		err := &contracts.InsufficientDataError{Symbol: series.Symbol, Have: n, Need: MinWeeklyBars}
		c.warn(series.Symbol, "weekly_momentum", err)
		return contracts.NewMomentumSentinel(series.Symbol), err
	}

	week1 := series.Bars[n-3].Close
	week2 := series.Bars[n-2].Close

	delta, err := PercentChange(week1, week2)
	if err != nil {
		err = fmt.Errorf("%s weekly momentum: %w", series.Symbol, err)
		c.warn(series.Symbol, "weekly_momentum", err)
		return contracts.NewMomentumSentinel(series.Symbol), err
	}

	return contracts.MomentumResult{
		Symbol:     series.Symbol,
		Week1Close: week1,
		Week2Close: week2,
		Delta:      delta,
	}, nil
}

// WeeklyReturns computes the previous and last completed weekly returns
// from bars[n-4], bars[n-3] and bars[n-2].
func (c *MomentumCalculator) WeeklyReturns(series contracts.SymbolSeries) (contracts.WeeklyReturns, error) {
	n := series.Len()
	if n < MinWeeklyBars {
		err := &contracts.InsufficientDataError{Symbol: series.Symbol, Have: n, Need: MinWeeklyBars}
		c.warn(series.Symbol, "weekly_returns", err)
		return contracts.NewWeeklyReturnsSentinel(series.Symbol), err
	}

	w1 := series.Bars[n-4].Close
	w2 := series.Bars[n-3].Close
	w3 := series.Bars[n-2].Close

	prev, err := PercentChange(w1, w2)
	if err != nil {
		err = fmt.Errorf("%s previous week: %w", series.Symbol, err)
		c.warn(series.Symbol, "weekly_returns", err)
		return contracts.NewWeeklyReturnsSentinel(series.Symbol), err
	}
	last, err := PercentChange(w2, w3)
	if err != nil {
		err = fmt.Errorf("%s last week: %w", series.Symbol, err)
		c.warn(series.Symbol, "weekly_returns", err)
		return contracts.NewWeeklyReturnsSentinel(series.Symbol), err
	}

	return contracts.WeeklyReturns{
		Symbol:   series.Symbol,
		PrevWeek: prev,
		LastWeek: last,
	}, nil
}

func (c *MomentumCalculator) warn(symbol, metric string, err error) {
	c.logger.WithError(err).WithFields(map[string]interface{}{
		"symbol": symbol,
		"metric": metric,
	}).Warn("Metric degraded to sentinel")
}
