package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/config"
	"github.com/jineeshjohn/market-movers/pkg/httputil"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

const weeklyFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "INFY.NS", "exchangeTimezoneName": "Asia/Kolkata"},
      "timestamp": [1704047400, 1704652200, 1705257000],
      "indicators": {"quote": [{
        "open":   [1500.0, 1540.5, null],
        "high":   [1550.0, 1560.0, 1600.0],
        "low":    [1490.0, 1520.0, 1570.0],
        "close":  [1540.0, 1555.25, 1590.0],
        "volume": [1000, null, 3000]
      }]}
    }],
    "error": null
  }
}`

const notFoundFixture = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{Provider: config.ProviderConfig{HTTPTimeout: 2 * time.Second}}
	return NewClient(httputil.New(cfg, logger.Nop()), logger.Nop(), baseURL)
}

func TestParseChartResponse(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantBars   int
		wantErrMsg string
	}{
		{
			name:     "skips bars with null OHLC",
			body:     weeklyFixture,
			status:   http.StatusOK,
			wantBars: 2,
		},
		{
			name:       "provider error object",
			body:       notFoundFixture,
			status:     http.StatusNotFound,
			wantErrMsg: "No data found, symbol may be delisted",
		},
		{
			name:     "empty result",
			body:     `{"chart":{"result":[],"error":null}}`,
			status:   http.StatusOK,
			wantBars: 0,
		},
		{
			name:     "no quote block",
			body:     `{"chart":{"result":[{"meta":{},"timestamp":[1],"indicators":{"quote":[]}}],"error":null}}`,
			status:   http.StatusOK,
			wantBars: 0,
		},
		{
			name:       "non-JSON error page",
			body:       `<html>rate limited</html>`,
			status:     http.StatusTooManyRequests,
			wantErrMsg: "unexpected status code: 429",
		},
		{
			name:       "garbage with 200",
			body:       `not json`,
			status:     http.StatusOK,
			wantErrMsg: "decode chart response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, err := parseChartResponse([]byte(tt.body), tt.status)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, bars, tt.wantBars)
		})
	}
}

func TestParseChartResponse_Values(t *testing.T) {
	bars, err := parseChartResponse([]byte(weeklyFixture), http.StatusOK)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, 1500.0, first.Open)
	assert.Equal(t, 1550.0, first.High)
	assert.Equal(t, 1490.0, first.Low)
	assert.Equal(t, 1540.0, first.Close)
	assert.Equal(t, int64(1000), first.Volume)
	assert.Equal(t, "Asia/Kolkata", first.Timestamp.Location().String())
	assert.Equal(t, int64(1704047400), first.Timestamp.Unix())

	// null volume becomes zero, bar is kept
	assert.Equal(t, int64(0), bars[1].Volume)
	assert.Equal(t, 1555.25, bars[1].Close)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotInterval, gotPeriod1, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		gotPeriod1 = r.URL.Query().Get("period1")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weeklyFixture))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")
	start := time.Unix(1704000000, 0)
	series, err := c.Fetch(context.Background(), "INFY.NS", start, start.AddDate(0, 0, 35), contracts.IntervalWeek)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/INFY.NS", gotPath)
	assert.Equal(t, "1wk", gotInterval)
	assert.Equal(t, "1704000000", gotPeriod1)
	assert.Equal(t, httputil.DefaultUserAgent, gotUA)

	assert.Equal(t, "INFY.NS", series.Symbol)
	assert.Equal(t, contracts.IntervalWeek, series.Interval)
	assert.Equal(t, 2, series.Len())
}

func TestClient_Fetch_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundFixture))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Fetch(context.Background(), "NOPE.NS", time.Now().AddDate(0, 0, -7), time.Now(), contracts.IntervalDay)
	require.Error(t, err)

	var fe *contracts.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "NOPE.NS", fe.Symbol)
	assert.Contains(t, err.Error(), "symbol may be delisted")
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(url)
	_, err := c.Fetch(context.Background(), "TCS.NS", time.Now().AddDate(0, 0, -7), time.Now(), contracts.IntervalDay)

	var fe *contracts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "TCS.NS", fe.Symbol)
}

func TestClient_Fetch_EmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"X"},"indicators":{"quote":[{}]}}],"error":null}}`))
	}))
	defer srv.Close()

	series, err := newTestClient(srv.URL).Fetch(context.Background(), "X", time.Now().AddDate(0, 0, -7), time.Now(), contracts.IntervalWeek)
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(nil, logger.Nop(), "")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
