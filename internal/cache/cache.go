package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
	"github.com/wonny/pulse/pkg/redis"
)

// Backend names reported in Stats
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Request kinds, used as metric labels
const (
	KindQuote  = "quote"
	KindNews   = "news"
	KindChart  = "chart"
	KindSearch = "search"
)

const keyPrefix = "pulse"

// Cache wraps a Store with hit/miss accounting and per-kind TTLs.
// Its decorators put the store in front of the provider clients.
// ⭐ SSOT: fetch caching goes through this type only
type Cache struct {
	store   Store
	backend string
	ttl     config.CacheConfig
	logger  *logger.Logger
	metrics *metrics.Metrics

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is the cache summary shown by /health
type Stats struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
	Entries int     `json:"entries,omitempty"`
}

// New builds a cache on Redis when the client is enabled, else in memory
func New(rdb *redis.Client, ttl config.CacheConfig, log *logger.Logger, m *metrics.Metrics) *Cache {
	if rdb.Enabled() {
		return NewWithStore(redis.NewCache(rdb, keyPrefix), BackendRedis, ttl, log, m)
	}
	return NewWithStore(NewMemoryStore(log), BackendMemory, ttl, log, m)
}

// NewWithStore builds a cache on an explicit store
func NewWithStore(store Store, backend string, ttl config.CacheConfig, log *logger.Logger, m *metrics.Metrics) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	if ttl.QuoteTTL <= 0 {
		ttl.QuoteTTL = redis.TTLQuote
	}
	if ttl.NewsTTL <= 0 {
		ttl.NewsTTL = redis.TTLNews
	}
	if ttl.ChartTTL <= 0 {
		ttl.ChartTTL = redis.TTLChart
	}
	return &Cache{
		store:   store,
		backend: backend,
		ttl:     ttl,
		logger:  log.WithField("component", "cache"),
		metrics: m,
	}
}

// get reads key into dest. Store errors are logged and count as misses.
func (c *Cache) get(ctx context.Context, kind, key string, dest interface{}) bool {
	hit, err := c.store.Get(ctx, key, dest)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache read failed")
		hit = false
	}

	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	c.metrics.RecordCache(kind, hit)
	return hit
}

func (c *Cache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Stats returns hit/miss counters and, for the memory backend, the entry count
func (c *Cache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := Stats{
		Backend: c.backend,
		Hits:    hits,
		Misses:  misses,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	if mem, ok := c.store.(*MemoryStore); ok {
		stats.Entries = mem.Len()
	}
	return stats
}

// CleanExpired drops expired memory entries. Redis expires keys itself.
func (c *Cache) CleanExpired() int {
	if mem, ok := c.store.(*MemoryStore); ok {
		return mem.CleanExpired()
	}
	return 0
}

// Invalidate removes the cached quote for each symbol
func (c *Cache) Invalidate(ctx context.Context, symbols ...string) {
	for _, s := range symbols {
		if err := c.store.Delete(ctx, redis.QuoteKey(s)); err != nil {
			c.logger.WithError(err).WithSymbol(s).Warn("cache delete failed")
		}
	}
}
