package signals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

func weekly(symbol string, closes ...float64) contracts.SymbolSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{Timestamp: start.AddDate(0, 0, 7*i), Open: c, Close: c}
	}
	return contracts.SymbolSeries{Symbol: symbol, Interval: contracts.IntervalWeek, Bars: bars}
}

func TestOpenCloseDiff(t *testing.T) {
	series := contracts.SymbolSeries{
		Symbol: "CCL.NS",
		Bars: []contracts.PriceBar{
			{Open: 50.00, Close: 48.50},
			{Open: 100, Close: 103.25},
		},
	}

	rows := OpenCloseDiff(series)
	require.Len(t, rows, 2)
	assert.InDelta(t, -1.50, rows[0].Diff, 1e-9)
	assert.InDelta(t, 3.25, rows[1].Diff, 1e-9)
	assert.Equal(t, 50.00, rows[0].Open)
	assert.Equal(t, 48.50, rows[0].Close)
}

func TestOpenCloseDiff_Empty(t *testing.T) {
	rows := OpenCloseDiff(contracts.SymbolSeries{Symbol: "X"})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name    string
		base    float64
		value   float64
		want    float64
		wantErr bool
	}{
		{"gain", 100, 110, 10, false},
		{"loss", 110, 105, -4.545454545454546, false},
		{"flat", 42, 42, 0, false},
		{"zero base", 0, 10, 0, true},
		{"nan base", math.NaN(), 10, 0, true},
		{"inf base", math.Inf(1), 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PercentChange(tt.base, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, contracts.ErrZeroBase)
				assert.True(t, math.IsNaN(got))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWeeklyMomentum(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	// bars[n-3] = 100, bars[n-2] = 110, last bar is the running week
	res, err := calc.WeeklyMomentum(weekly("TCS.NS", 90, 95, 100, 110, 999))
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", res.Symbol)
	assert.Equal(t, 100.0, res.Week1Close)
	assert.Equal(t, 110.0, res.Week2Close)
	assert.InDelta(t, 10.0, res.Delta, 1e-9)
	assert.False(t, res.IsSentinel())
}

func TestWeeklyMomentum_UsesTailOffsets(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())
	closes := []float64{1, 2, 3, 4, 5, 6, 80, 60, 7}

	res, err := calc.WeeklyMomentum(weekly("LONG.NS", closes...))
	require.NoError(t, err)

	n := len(closes)
	want := (closes[n-2] - closes[n-3]) / closes[n-3] * 100
	assert.InDelta(t, want, res.Delta, 1e-9)
}

func TestWeeklyMomentum_Insufficient(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	for n := 0; n < MinWeeklyBars; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = float64(100 + i)
		}

		var res contracts.MomentumResult
		var err error
		assert.NotPanics(t, func() {
			res, err = calc.WeeklyMomentum(weekly("SHORT.NS", closes...))
		})
		assert.ErrorIs(t, err, contracts.ErrInsufficientData)
		assert.True(t, res.IsSentinel())
		assert.True(t, math.IsNaN(res.Week1Close))
		assert.True(t, math.IsNaN(res.Week2Close))
		assert.Equal(t, "SHORT.NS", res.Symbol)
	}
}

func TestWeeklyMomentum_ZeroBase(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	res, err := calc.WeeklyMomentum(weekly("ZERO.NS", 1, 1, 0, 5, 5))
	assert.ErrorIs(t, err, contracts.ErrZeroBase)
	assert.True(t, res.IsSentinel())
}

func TestWeeklyReturns(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	// two older bars, then w1=100, w2=110, w3=105, then the running week
	res, err := calc.WeeklyReturns(weekly("INFY.NS", 80, 90, 100, 110, 105, 120))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.PrevWeek, 1e-9)
	assert.InDelta(t, -4.545454, res.LastWeek, 1e-6)
}

func TestWeeklyReturns_FiveBars(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	res, err := calc.WeeklyReturns(weekly("INFY.NS", 90, 100, 110, 105, 120))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.PrevWeek, 1e-9)
	assert.InDelta(t, -4.545454, res.LastWeek, 1e-6)
}

func TestWeeklyReturns_Insufficient(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	res, err := calc.WeeklyReturns(weekly("SHORT.NS", 100, 110, 105))
	var ide *contracts.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 3, ide.Have)
	assert.Equal(t, MinWeeklyBars, ide.Need)
	assert.True(t, res.IsSentinel())
}

func TestWeeklyReturns_ZeroBase(t *testing.T) {
	calc := NewMomentumCalculator(logger.Nop())

	res, err := calc.WeeklyReturns(weekly("ZERO.NS", 1, 0, 100, 50, 5))
	assert.ErrorIs(t, err, contracts.ErrZeroBase)
	assert.True(t, res.IsSentinel())
}
