package jobs

import (
	"context"

	"github.com/jineeshjohn/market-movers/internal/cache"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// CacheCleanupJob evicts stale series from the fetch cache
type CacheCleanupJob struct {
	cache    *cache.SeriesCache
	schedule string
	logger   *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(seriesCache *cache.SeriesCache, schedule string, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:    seriesCache,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return j.schedule
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	count := j.cache.CleanStale()

	stats := j.cache.Stats()
	j.logger.WithFields(map[string]interface{}{
		"removed": count,
		"entries": stats.TotalCount,
		"hits":    stats.Hits,
		"misses":  stats.Misses,
	}).Debug("Cache cleanup completed")

	return nil
}
