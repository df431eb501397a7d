package signals

import (
	"math"

	"github.com/jineeshjohn/market-movers/internal/contracts"
)

// OpenCloseDiff returns one row per bar with diff = close - open.
// An empty series yields an empty (non-nil) result.
func OpenCloseDiff(series contracts.SymbolSeries) []contracts.BarDiff {
	rows := make([]contracts.BarDiff, 0, len(series.Bars))
	for _, b := range series.Bars {
		rows = append(rows, contracts.BarDiff{
			Date:  b.Timestamp,
			Open:  b.Open,
			Close: b.Close,
			Diff:  b.Close - b.Open,
		})
	}
	return rows
}

// PercentChange is the simple relative change from base to value, x100
func PercentChange(base, value float64) (float64, error) {
	if base == 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return math.NaN(), contracts.ErrZeroBase
	}
	return (value - base) / base * 100, nil
}
