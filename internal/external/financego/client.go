package financego

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// barIter is the part of *chart.Iter the client consumes
type barIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

type chartSource func(*chart.Params) barIter

// Client fetches bars through the finance-go chart package.
// finance-go owns its HTTP backend, so the client only checks ctx between bars.
// ⭐ SSOT: finance-go 호출은 이 클라이언트에서만
type Client struct {
	source chartSource
	logger *logger.Logger
	loc    *time.Location
}

// NewClient creates a finance-go backed fetcher. Bar timestamps are placed in loc (nil = UTC).
func NewClient(log *logger.Logger, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		source: func(p *chart.Params) barIter { return chart.Get(p) },
		logger: log.WithField("module", "financego"),
		loc:    loc,
	}
}

// Fetch implements contracts.SeriesFetcher
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time, interval contracts.Interval) (contracts.SymbolSeries, error) {
	series := contracts.SymbolSeries{Symbol: symbol, Interval: interval}

	if err := ctx.Err(); err != nil {
		return series, &contracts.FetchError{Symbol: symbol, Err: err}
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval.String()),
	}

	iter := c.source(params)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return series, &contracts.FetchError{Symbol: symbol, Err: err}
		}
		bar, ok := convertBar(iter.Bar(), c.loc)
		if !ok {
			continue
		}
		series.Bars = append(series.Bars, bar)
	}
	if err := iter.Err(); err != nil {
		return series, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("finance-go chart: %w", err)}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"interval": interval.String(),
		"count":    len(series.Bars),
	}).Debug("Fetched bars")

	return series, nil
}

// convertBar maps a decimal bar to float prices. Bars with a zero close are
// how finance-go reports missing quotes, so they are dropped.
func convertBar(b *finance.ChartBar, loc *time.Location) (contracts.PriceBar, bool) {
	if b == nil || b.Close.Sign() == 0 {
		return contracts.PriceBar{}, false
	}
	return contracts.PriceBar{
		Timestamp: time.Unix(int64(b.Timestamp), 0).In(loc),
		Open:      toFloat(b.Open),
		High:      toFloat(b.High),
		Low:       toFloat(b.Low),
		Close:     toFloat(b.Close),
		Volume:    int64(b.Volume),
	}, true
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
