package cache

import (
	"context"
	"strings"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/redis"
)

// Quotes caches quotes per symbol; only missing symbols reach src
func (c *Cache) Quotes(src contracts.QuoteSource) contracts.QuoteSource {
	return &quoteCache{cache: c, src: src}
}

// News caches headlines per symbol
func (c *Cache) News(src contracts.NewsSource) contracts.NewsSource {
	return &newsCache{cache: c, src: src}
}

// Chart caches series per symbol and range
func (c *Cache) Chart(src contracts.ChartSource) contracts.ChartSource {
	return &chartCache{cache: c, src: src}
}

// Search caches suggestions per normalized query
func (c *Cache) Search(src contracts.SearchSource) contracts.SearchSource {
	return &searchCache{cache: c, src: src}
}

type quoteCache struct {
	cache *Cache
	src   contracts.QuoteSource
}

func (q *quoteCache) Quotes(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	found := make(map[string]contracts.Quote, len(symbols))
	var missing []string
	for _, s := range symbols {
		var quote contracts.Quote
		if q.cache.get(ctx, KindQuote, redis.QuoteKey(s), &quote) {
			found[strings.ToUpper(s)] = quote
			continue
		}
		missing = append(missing, s)
	}

	if len(missing) > 0 {
		fetched, err := q.src.Quotes(ctx, missing)
		if err != nil {
			if len(found) == 0 {
				return nil, err
			}
			q.cache.logger.WithError(err).WithField("missing", len(missing)).Warn("serving cached quotes only")
		}
		for _, quote := range fetched {
			q.cache.set(ctx, redis.QuoteKey(quote.Symbol), quote, q.cache.ttl.QuoteTTL)
			found[strings.ToUpper(quote.Symbol)] = quote
		}
	}

	out := make([]contracts.Quote, 0, len(found))
	for _, s := range symbols {
		if quote, ok := found[strings.ToUpper(s)]; ok {
			out = append(out, quote)
			delete(found, strings.ToUpper(s))
		}
	}
	return out, nil
}

type newsCache struct {
	cache *Cache
	src   contracts.NewsSource
}

func (n *newsCache) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	key := redis.NewsKey(symbol)

	var items []contracts.NewsItem
	if n.cache.get(ctx, KindNews, key, &items) {
		return items, nil
	}

	items, err := n.src.News(ctx, symbol)
	if err != nil {
		return nil, err
	}
	n.cache.set(ctx, key, items, n.cache.ttl.NewsTTL)
	return items, nil
}

type chartCache struct {
	cache *Cache
	src   contracts.ChartSource
}

func (c *chartCache) Chart(ctx context.Context, symbol, rng string) (*contracts.ChartSeries, error) {
	key := redis.ChartKey(symbol, rng)

	var series contracts.ChartSeries
	if c.cache.get(ctx, KindChart, key, &series) {
		return &series, nil
	}

	fetched, err := c.src.Chart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	c.cache.set(ctx, key, fetched, c.cache.ttl.ChartTTL)
	return fetched, nil
}

type searchCache struct {
	cache *Cache
	src   contracts.SearchSource
}

func (s *searchCache) Search(ctx context.Context, query string) ([]contracts.Suggestion, error) {
	key := redis.SearchKey(query)

	var suggestions []contracts.Suggestion
	if s.cache.get(ctx, KindSearch, key, &suggestions) {
		return suggestions, nil
	}

	suggestions, err := s.src.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, suggestions, redis.TTLDaily)
	return suggestions, nil
}
