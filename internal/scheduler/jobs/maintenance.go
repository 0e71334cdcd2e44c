package jobs

import (
	"context"

	"github.com/wonny/pulse/pkg/logger"
)

// ExpiringCache drops expired entries
type ExpiringCache interface {
	CleanExpired() int
}

// CacheCleanupJob removes expired entries from the in-memory cache
type CacheCleanupJob struct {
	cache  ExpiringCache
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(c ExpiringCache, log *logger.Logger) *CacheCleanupJob {
	if log == nil {
		log = logger.Nop()
	}
	return &CacheCleanupJob{
		cache:  c,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count := j.cache.CleanExpired()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}
