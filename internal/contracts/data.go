package contracts

import (
	"fmt"
	"strings"
	"time"
)

// PriceBar is one OHLC record for a fixed interval
// ⭐ SSOT: Fetcher → Calculator 가격 데이터 전달
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Interval is the bar granularity
type Interval string

const (
	IntervalDay    Interval = "1d"
	IntervalWeek   Interval = "1wk"
	IntervalMinute Interval = "1m"
)

// ParseInterval accepts both the long name and the provider code
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "1d":
		return IntervalDay, nil
	case "week", "1wk":
		return IntervalWeek, nil
	case "minute", "1m":
		return IntervalMinute, nil
	default:
		return "", fmt.Errorf("unknown interval %q", s)
	}
}

// String returns the provider code
func (i Interval) String() string {
	return string(i)
}

// SymbolSeries holds bars for one symbol, ascending by timestamp
type SymbolSeries struct {
	Symbol   string     `json:"symbol"`
	Interval Interval   `json:"interval"`
	Bars     []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (s SymbolSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in series order
func (s SymbolSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Window is a [Start, End) fetch range
type Window struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the window ending at now covering the previous n days
func LastDays(now time.Time, n int) Window {
	return Window{Start: now.AddDate(0, 0, -n), End: now}
}

// LastYears returns the window ending at now covering the previous n years
func LastYears(now time.Time, n int) Window {
	return Window{Start: now.AddDate(-n, 0, 0), End: now}
}
