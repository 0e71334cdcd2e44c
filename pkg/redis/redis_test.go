package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/pkg/config"
)

type cachedQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := New(context.Background(), &config.Config{})
	limiter := NewRateLimiter(client, "test")

	allowed, remaining, err := limiter.Allow(context.Background(), YahooRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, YahooRateLimit.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), FinnhubRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(context.Background(), &config.Config{})
	cache := NewCache(client, "test")

	var result string
	found, err := cache.Get(context.Background(), "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(context.Background(), "key", "value", time.Minute))
	assert.NoError(t, cache.Delete(context.Background(), "key"))
}

func TestCache_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "pulse")

	mock.ExpectGet("pulse:cache:quote:AAPL").SetVal(`{"symbol":"AAPL","price":189.5}`)

	var got cachedQuote
	found, err := cache.Get(context.Background(), QuoteKey("aapl"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedQuote{Symbol: "AAPL", Price: 189.5}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "pulse")

	mock.ExpectGet("pulse:cache:news:TSLA").RedisNil()

	var got []string
	found, err := cache.Get(context.Background(), NewsKey("TSLA"), &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "pulse")

	mock.ExpectGet("pulse:cache:quote:MSFT").SetErr(errors.New("connection reset"))

	var got cachedQuote
	found, err := cache.Get(context.Background(), QuoteKey("MSFT"), &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "pulse")

	mock.ExpectSet("pulse:cache:chart:BTC-USD:1d", []byte(`{"symbol":"BTC-USD","price":64000}`), TTLChart).SetVal("OK")

	err := cache.Set(context.Background(), ChartKey("btc-usd", "1d"), cachedQuote{Symbol: "BTC-USD", Price: 64000}, TTLChart)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"QuoteKey", QuoteKey("aapl"), "quote:AAPL"},
		{"NewsKey", NewsKey("shop.to"), "news:SHOP.TO"},
		{"ChartKey", ChartKey("^gspc", "5d"), "chart:^GSPC:5d"},
		{"SearchKey", SearchKey("  Apple "), "search:apple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestWindowMember_UniqueWithinMillisecond(t *testing.T) {
	a := windowMember(1700000000000)
	b := windowMember(1700000000000)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "1700000000000-"))
	assert.True(t, strings.HasPrefix(b, "1700000000000-"))
}

func TestRateLimiter_SendsUniqueMember(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(Wrap(db), "test")

	var members []string
	capture := func(expected, actual []interface{}) error {
		// evalsha sha numkeys key now windowStart limit windowMs member
		if len(actual) != 9 {
			return fmt.Errorf("unexpected args %v", actual)
		}
		members = append(members, fmt.Sprint(actual[8]))
		return nil
	}
	for i := 0; i < 2; i++ {
		mock.CustomMatch(capture).
			ExpectEvalSha(slidingWindow.Hash(), []string{"test:ratelimit:yahoo"}).
			SetVal([]interface{}{int64(1), int64(3 - i)})
	}

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(context.Background(), YahooRateLimit)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	require.Len(t, members, 2)
	assert.NotEqual(t, members[0], members[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitFor(t *testing.T) {
	for _, name := range []string{"yahoo", "finnhub", "coingecko", "fmp", "newsapi"} {
		cfg, ok := RateLimitFor(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, cfg.Key)
		assert.Positive(t, cfg.Limit)
	}

	_, ok := RateLimitFor("unknown")
	assert.False(t, ok)
}
