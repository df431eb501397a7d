package contracts

import (
	"context"
	"time"
)

// SeriesFetcher retrieves bars for one symbol from a market data provider.
// Implementations return *FetchError on failure and an empty series (not an
// error) when the provider has no bars in the window.
// ⭐ SSOT: 외부 시세 조회 계약
type SeriesFetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time, interval Interval) (SymbolSeries, error)
}
