package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting using Redis,
// shared across every process that talks to the same upstream
// ⭐ SSOT: distributed rate limits live here only
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // provider identifier (e.g. "yahoo", "finnhub")
	Limit  int           // maximum requests allowed
	Window time.Duration // time window
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	else
		return {0, 0}
	end
`)

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// Allow checks if a request is allowed under the rate limit
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	result, err := slidingWindow.Run(ctx, r.client.Redis(), []string{key},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
		windowMember(now),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(result) != 2 {
		return false, 0, fmt.Errorf("rate limit script returned %d values", len(result))
	}

	allowed, _ := result[0].(int64)
	remaining, _ := result[1].(int64)

	return allowed == 1, int(remaining), nil
}

// windowMember is the sorted-set member for one request; requests in the same millisecond stay distinct
func windowMember(now int64) string {
	return fmt.Sprintf("%d-%s", now, uuid.NewString())
}

// Wait blocks until a request is allowed or context is cancelled
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Predefined rate limit configs for external APIs (conservative vs. published quotas)
var (
	// Yahoo Finance: unofficial, keep it gentle
	YahooRateLimit = RateLimitConfig{Key: "yahoo", Limit: 5, Window: time.Second}

	// Finnhub free tier: 60/min
	FinnhubRateLimit = RateLimitConfig{Key: "finnhub", Limit: 55, Window: time.Minute}

	// CoinGecko demo tier: 30/min
	CoinGeckoRateLimit = RateLimitConfig{Key: "coingecko", Limit: 25, Window: time.Minute}

	// FMP free tier: 250/day, spread out
	FMPRateLimit = RateLimitConfig{Key: "fmp", Limit: 10, Window: time.Minute}

	// NewsAPI developer tier: 100/day
	NewsAPIRateLimit = RateLimitConfig{Key: "newsapi", Limit: 5, Window: time.Minute}
)

// RateLimitFor returns the predefined config for a provider name
func RateLimitFor(provider string) (RateLimitConfig, bool) {
	switch provider {
	case "yahoo":
		return YahooRateLimit, true
	case "finnhub":
		return FinnhubRateLimit, true
	case "coingecko":
		return CoinGeckoRateLimit, true
	case "fmp":
		return FMPRateLimit, true
	case "newsapi":
		return NewsAPIRateLimit, true
	}
	return RateLimitConfig{}, false
}
