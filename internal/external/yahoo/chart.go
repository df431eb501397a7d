package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jineeshjohn/market-movers/internal/contracts"
)

// chartResponse mirrors the v8 chart payload. Quote values are pointers
// because Yahoo sends null for bars with no trades.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Fetch implements contracts.SeriesFetcher against the chart endpoint
// ⭐ SSOT: Yahoo 시세 조회는 이 함수에서만
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time, interval contracts.Interval) (contracts.SymbolSeries, error) {
	series := contracts.SymbolSeries{Symbol: symbol, Interval: interval}

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", interval.String())
	params.Set("events", "history")
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return series, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return series, &contracts.FetchError{Symbol: symbol, Err: fmt.Errorf("read response body failed: %w", err)}
	}

	bars, err := parseChartResponse(body, resp.StatusCode)
	if err != nil {
		return series, &contracts.FetchError{Symbol: symbol, Err: err}
	}
	series.Bars = bars

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"interval": interval.String(),
		"count":    len(bars),
	}).Debug("Fetched bars")

	return series, nil
}

// parseChartResponse turns a chart payload into ascending bars.
// Bars with any null OHLC value are skipped.
func parseChartResponse(body []byte, statusCode int) ([]contracts.PriceBar, error) {
	var payload chartResponse
	decodeErr := json.Unmarshal(body, &payload)

	if decodeErr == nil && payload.Chart.Error != nil {
		msg := payload.Chart.Error.Description
		if msg == "" {
			msg = payload.Chart.Error.Code
		}
		return nil, errors.New(msg)
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", statusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode chart response: %w", decodeErr)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, ok1 := valueAt(quote.Open, i)
		high, ok2 := valueAt(quote.High, i)
		low, ok3 := valueAt(quote.Low, i)
		closePrice, ok4 := valueAt(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, contracts.PriceBar{
			Timestamp: time.Unix(ts, 0).In(loc),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	return bars, nil
}

func valueAt(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
