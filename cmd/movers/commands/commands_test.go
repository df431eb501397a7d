package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jineeshjohn/market-movers/internal/cache"
	"github.com/jineeshjohn/market-movers/pkg/config"
)

func TestRootCommands(t *testing.T) {
	want := []string{"bars", "chart", "momentum", "opendiff", "scheduler", "serve", "symbols", "version"}

	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestNewApp(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CACHE_TTL", "5m")

	a, err := newApp(func(cfg *config.Config) { cfg.Report.TopK = 3 })
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 3, a.cfg.Report.TopK)
	assert.False(t, a.redis.Enabled())
	assert.NotEmpty(t, a.universe.Tickers())
	require.NotNil(t, a.cache)
	assert.IsType(t, &cache.Fetcher{}, a.fetcher)

	sched, err := newScheduler(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache_cleanup", "publish_chart", "publish_momentum"}, sched.GetAllJobs())
}

func TestNewApp_NoCacheFinanceGo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PROVIDER", "financego")
	t.Setenv("FETCH_RATE_PER_SEC", "5")

	a, err := newApp()
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.cache)
	assert.Equal(t, "financego", a.cfg.Provider.Name)

	sched, err := newScheduler(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"publish_chart", "publish_momentum"}, sched.GetAllJobs())
}

func TestLoadConfig_Flags(t *testing.T) {
	env, verbose = "staging", true
	t.Cleanup(func() { env, verbose = "", false })
	t.Setenv("ENV", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
}

// weeklyChartJSON is a chart payload with one weekly bar per close
func weeklyChartJSON(closes ...float64) string {
	start := time.Date(2024, 1, 1, 3, 45, 0, 0, time.UTC)
	var ts, vals []string
	for i, c := range closes {
		ts = append(ts, fmt.Sprintf("%d", start.AddDate(0, 0, 7*i).Unix()))
		vals = append(vals, fmt.Sprintf("%g", c))
	}
	q := strings.Join(vals, ",")
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":"AAA.NS","exchangeTimezoneName":"Asia/Kolkata"},`+
		`"timestamp":[%s],"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[]}]}}],"error":null}}`,
		strings.Join(ts, ","), q, q, q, q)
}

func TestRunMomentum_ColumnOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAA.NS", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, weeklyChartJSON(80, 90, 100, 110, 105))
	}))
	defer srv.Close()

	universeFile := filepath.Join(t.TempDir(), "universe.yaml")
	require.NoError(t, os.WriteFile(universeFile, []byte("name: one\nsuffix: .NS\nsymbols: [AAA]\n"), 0o644))

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("YAHOO_BASE_URL", srv.URL)
	t.Setenv("UNIVERSE_FILE", universeFile)

	var buf bytes.Buffer
	out = &buf
	t.Cleanup(func() { out = os.Stdout })

	momentumCmd.SetContext(context.Background())
	require.NoError(t, runMomentum(momentumCmd, nil))

	lines := strings.Split(buf.String(), "\n")
	var header, row []string
	for _, l := range lines {
		f := strings.Fields(l)
		if header == nil && len(f) > 0 && f[0] == "Symbol" {
			header = f
		}
		if row == nil && len(f) > 0 && f[0] == "AAA.NS" {
			row = f
		}
	}

	require.NotNil(t, header)
	assert.Equal(t, []string{"Symbol", "Week", "-2", "Week", "-1", "Change"}, header)
	// Two weeks ago 100, last completed week 110
	assert.Equal(t, []string{"AAA.NS", "100.00", "110.00", "+10.00%"}, row)
}
