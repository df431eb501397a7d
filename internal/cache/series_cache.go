package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jineeshjohn/market-movers/internal/contracts"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// SeriesCache is an in-memory TTL cache of fetched bar series
// ⭐ SSOT: 시세 캐싱은 이 구조체에서만
type SeriesCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	series   contracts.SymbolSeries
	storedAt time.Time
}

// NewSeriesCache creates a new series cache
func NewSeriesCache(ttl time.Duration, log *logger.Logger) *SeriesCache {
	return &SeriesCache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  log.WithField("module", "cache"),
	}
}

// Key identifies a fetch. Window bounds are truncated to the day so repeated
// requests inside one TTL share an entry.
func Key(symbol string, interval contracts.Interval, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", symbol, interval, start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
}

// Get returns a fresh series. Stale entries count as misses.
func (c *SeriesCache) Get(key string) (contracts.SymbolSeries, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.stale(e) {
		c.misses.Add(1)
		return contracts.SymbolSeries{}, false
	}

	c.hits.Add(1)
	return e.series, true
}

// Put stores series under key.
// A series ending before the cached one is rejected while the cached one is fresh.
func (c *SeriesCache) Put(key string, series contracts.SymbolSeries) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && !c.stale(existing) {
		if lastBar(series).Before(lastBar(existing.series)) {
			c.logger.WithFields(map[string]interface{}{
				"key":      key,
				"new_last": lastBar(series),
				"old_last": lastBar(existing.series),
			}).Debug("Rejected older series")
			return false
		}
	}

	c.entries[key] = &entry{series: series, storedAt: c.now()}
	return true
}

// Len returns the number of entries, stale included
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanStale removes stale entries and returns how many went
func (c *SeriesCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if c.stale(e) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale series from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *SeriesCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		TotalCount: len(c.entries),
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
	}
	for _, e := range c.entries {
		if c.stale(e) {
			stats.StaleCount++
		}
	}
	stats.FreshCount = stats.TotalCount - stats.StaleCount

	return stats
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalCount int   `json:"total_count"`
	FreshCount int   `json:"fresh_count"`
	StaleCount int   `json:"stale_count"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
}

func (c *SeriesCache) stale(e *entry) bool {
	return c.now().Sub(e.storedAt) > c.ttl
}

func lastBar(s contracts.SymbolSeries) time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Timestamp
}

// Fetcher serves fetches from the cache and fills it on a miss.
// Errors and empty series are never cached.
type Fetcher struct {
	next  contracts.SeriesFetcher
	cache *SeriesCache
}

// NewFetcher wraps next with cache
func NewFetcher(next contracts.SeriesFetcher, cache *SeriesCache) *Fetcher {
	return &Fetcher{next: next, cache: cache}
}

// Fetch implements contracts.SeriesFetcher
func (f *Fetcher) Fetch(ctx context.Context, symbol string, start, end time.Time, interval contracts.Interval) (contracts.SymbolSeries, error) {
	key := Key(symbol, interval, start, end)
	if s, ok := f.cache.Get(key); ok {
		return s, nil
	}

	s, err := f.next.Fetch(ctx, symbol, start, end, interval)
	if err != nil {
		return s, err
	}
	if s.Len() > 0 {
		f.cache.Put(key, s)
	}
	return s, nil
}
