package market

import (
	"fmt"

	"github.com/wonny/pulse/internal/cache"
	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external/coingecko"
	"github.com/wonny/pulse/internal/external/finnhub"
	"github.com/wonny/pulse/internal/external/fmp"
	"github.com/wonny/pulse/internal/external/newsapi"
	"github.com/wonny/pulse/internal/external/yahoo"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
	"github.com/wonny/pulse/pkg/redis"
)

// Providers holds one collaborator per request kind
type Providers struct {
	Quotes contracts.QuoteSource // stocks, ETFs, indices
	Crypto contracts.QuoteSource
	News   contracts.NewsSource
	Chart  contracts.ChartSource
	Search contracts.SearchSource
}

// ProviderOptions carries the shared infrastructure for provider HTTP clients.
// Every field is optional.
type ProviderOptions struct {
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	Breakers    *httputil.BreakerRegistry
	RateLimiter *redis.RateLimiter
	Cache       *cache.Cache
}

// NewProviders builds the configured provider clients, wrapped by the cache when one is given
// ⭐ SSOT: provider routing (QUOTE/CRYPTO/NEWS/SEARCH_PROVIDER) is decided here
func NewProviders(cfg *config.Config, opts ProviderOptions) (Providers, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	yahooClient := yahoo.NewClient(newHTTPClient(yahoo.Name, yahoo.Name, opts), log, cfg.Yahoo)

	var p Providers
	p.Chart = yahooClient

	switch cfg.Providers.Quote {
	case yahoo.Name:
		p.Quotes = yahooClient
	case fmp.Name:
		p.Quotes = fmp.NewClient(newHTTPClient(fmp.Name, fmp.Name, opts), log, cfg.FMP)
	default:
		return Providers{}, fmt.Errorf("unknown quote provider %q", cfg.Providers.Quote)
	}

	switch cfg.Providers.Crypto {
	case yahoo.Name:
		p.Crypto = yahooClient
	case coingecko.Name:
		p.Crypto = coingecko.NewClient(newHTTPClient(coingecko.Name, coingecko.Name, opts), log, cfg.CoinGecko)
	default:
		return Providers{}, fmt.Errorf("unknown crypto provider %q", cfg.Providers.Crypto)
	}

	switch cfg.Providers.News {
	case yahoo.Name:
		p.News = yahooClient
	case yahoo.RSSName:
		p.News = yahoo.NewRSSClient(newHTTPClient(yahoo.RSSName, yahoo.Name, opts), log, cfg.Yahoo.RSSURL)
	case finnhub.Name:
		p.News = newFinnhub(cfg, opts, log)
	case newsapi.Name:
		p.News = newsapi.NewClient(newHTTPClient(newsapi.Name, newsapi.Name, opts), log, cfg.NewsAPI)
	default:
		return Providers{}, fmt.Errorf("unknown news provider %q", cfg.Providers.News)
	}

	switch cfg.Providers.Search {
	case finnhub.Name:
		p.Search = newFinnhub(cfg, opts, log)
	case yahoo.Name:
		p.Search = yahooClient
	default:
		return Providers{}, fmt.Errorf("unknown search provider %q", cfg.Providers.Search)
	}

	if c := opts.Cache; c != nil {
		p.Quotes = c.Quotes(p.Quotes)
		p.Crypto = c.Quotes(p.Crypto)
		p.News = c.News(p.News)
		p.Chart = c.Chart(p.Chart)
		p.Search = c.Search(p.Search)
	}

	log.WithFields(map[string]interface{}{
		"quote":  cfg.Providers.Quote,
		"crypto": cfg.Providers.Crypto,
		"news":   cfg.Providers.News,
		"search": cfg.Providers.Search,
		"cached": opts.Cache != nil,
	}).Info("Providers configured")

	return p, nil
}

func newFinnhub(cfg *config.Config, opts ProviderOptions, log *logger.Logger) *finnhub.Client {
	return finnhub.NewClient(newHTTPClient(finnhub.Name, finnhub.Name, opts), log, cfg.Finnhub)
}

// newHTTPClient creates the instrumented client for a provider. limitKey selects the
// rate limit preset; the shared Redis limiter is used when enabled, else a local bucket.
func newHTTPClient(name, limitKey string, opts ProviderOptions) *httputil.Client {
	client := httputil.New(name, opts.Logger).
		WithMetrics(opts.Metrics).
		WithBreakers(opts.Breakers)

	limit, ok := redis.RateLimitFor(limitKey)
	if !ok {
		return client
	}
	if opts.RateLimiter != nil {
		client.WithRateLimiter(opts.RateLimiter, limit)
	}
	rps := float64(limit.Limit) / limit.Window.Seconds()
	return client.WithLocalLimit(rps, limit.Limit)
}
