package contracts

import (
	"math"
	"time"
)

// BarDiff is one row of the open/close report
type BarDiff struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	Close float64   `json:"close"`
	Diff  float64   `json:"diff"` // close - open
}

// MomentumResult is the week-over-week change for one symbol.
// Numeric fields are NaN when the computation could not be completed.
type MomentumResult struct {
	Symbol     string  `json:"symbol"`
	Week1Close float64 `json:"week1_close"`
	Week2Close float64 `json:"week2_close"`
	Delta      float64 `json:"delta"` // %
}

// NewMomentumSentinel returns a result with every numeric field NaN
func NewMomentumSentinel(symbol string) MomentumResult {
	return MomentumResult{
		Symbol:     symbol,
		Week1Close: math.NaN(),
		Week2Close: math.NaN(),
		Delta:      math.NaN(),
	}
}

// IsSentinel reports whether the result marks a failed computation
func (r MomentumResult) IsSentinel() bool {
	return math.IsNaN(r.Delta)
}

// WeeklyReturns holds the last two completed weekly returns for one symbol
type WeeklyReturns struct {
	Symbol   string  `json:"symbol"`
	PrevWeek float64 `json:"prev_week"` // %
	LastWeek float64 `json:"last_week"` // %
}

// NewWeeklyReturnsSentinel returns a result with every numeric field NaN
func NewWeeklyReturnsSentinel(symbol string) WeeklyReturns {
	return WeeklyReturns{
		Symbol:   symbol,
		PrevWeek: math.NaN(),
		LastWeek: math.NaN(),
	}
}

// IsSentinel reports whether the result marks a failed computation
func (r WeeklyReturns) IsSentinel() bool {
	return math.IsNaN(r.PrevWeek) || math.IsNaN(r.LastWeek)
}
