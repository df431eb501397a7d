package commands

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/jineeshjohn/market-movers/internal/cache"
	"github.com/jineeshjohn/market-movers/internal/chart"
	"github.com/jineeshjohn/market-movers/internal/collector"
	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/internal/external/financego"
	"github.com/jineeshjohn/market-movers/internal/external/yahoo"
	"github.com/jineeshjohn/market-movers/internal/report"
	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/config"
	"github.com/jineeshjohn/market-movers/pkg/httputil"
	"github.com/jineeshjohn/market-movers/pkg/logger"
	"github.com/jineeshjohn/market-movers/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	fetcher  contracts.SeriesFetcher
	builder  *report.Builder
	renderer *report.Renderer
	universe *universe.Universe
	charts   *chart.Generator
	cache    *cache.SeriesCache // nil when CACHE_TTL=0
	redis    *redis.Client
}

// loadConfig applies global flags on top of the environment
func loadConfig() (*config.Config, error) {
	if env != "" {
		os.Setenv("ENV", env)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires provider, limiters, collector and report builder from config.
// Overrides run after flags are applied.
func newApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	log := logger.New(cfg)

	u, err := universe.Load(cfg.Report.UniverseFile)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Report.ChartTimezone)
	if err != nil {
		return nil, fmt.Errorf("chart timezone: %w", err)
	}

	rc, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	// Shared budget across instances, only when Redis is on
	var shared httputil.Limiter
	if rc.Enabled() {
		shared = redis.NewRateLimiter(rc, "movers", redis.ProviderRateLimit(cfg))
	}

	var fetcher contracts.SeriesFetcher
	switch cfg.Provider.Name {
	case "financego":
		fetcher = financego.NewClient(log, loc)
	default:
		hc := httputil.New(cfg, log).WithLimiter(shared)
		fetcher = yahoo.NewClient(hc, log, cfg.Provider.YahooURL)
	}

	var seriesCache *cache.SeriesCache
	if cfg.Cache.TTL > 0 {
		seriesCache = cache.NewSeriesCache(cfg.Cache.TTL, log)
		fetcher = cache.NewFetcher(fetcher, seriesCache)
	}

	coll := collector.NewCollector(fetcher, collector.Config{Workers: cfg.Fetch.Workers}, log)
	if cfg.Fetch.RatePerSec > 0 {
		burst := cfg.Fetch.Burst
		if burst < 1 {
			burst = 1
		}
		coll.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSec), burst))
	}
	if cfg.Provider.Name == "financego" {
		// finance-go bypasses httputil, so the shared budget is enforced per symbol
		coll.WithLimiter(shared)
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		rc.Close()
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"provider": cfg.Provider.Name,
		"universe": u.Name,
		"symbols":  len(u.Symbols),
		"workers":  cfg.Fetch.Workers,
		"redis":    rc.Enabled(),
		"cache":    cfg.Cache.TTL.String(),
	}).Debug("Dependencies wired")

	return &app{
		cfg:      cfg,
		log:      log,
		fetcher:  fetcher,
		builder:  report.NewBuilder(fetcher, coll, report.OptionsFromConfig(cfg), log),
		renderer: renderer,
		universe: u,
		charts:   chart.NewGenerator(fetcher, loc, log),
		cache:    seriesCache,
		redis:    rc,
	}, nil
}

// Close releases external connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
