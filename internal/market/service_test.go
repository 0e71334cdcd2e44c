package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/internal/universe"
	"github.com/wonny/pulse/pkg/httputil"
)

type stubQuotes struct {
	mu     sync.Mutex
	quotes map[string]contracts.Quote
	err    error
	asked  [][]string
}

func (s *stubQuotes) Quotes(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	s.mu.Lock()
	s.asked = append(s.asked, symbols)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []contracts.Quote
	// reverse order: the service must restore universe order
	for i := len(symbols) - 1; i >= 0; i-- {
		if q, ok := s.quotes[symbols[i]]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type stubNews struct {
	items []contracts.NewsItem
	err   error
}

func (s *stubNews) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	return s.items, s.err
}

type stubChart struct{}

func (stubChart) Chart(ctx context.Context, symbol, rng string) (*contracts.ChartSeries, error) {
	if symbol == "FAIL" {
		return nil, errors.New("upstream down")
	}
	return &contracts.ChartSeries{Symbol: symbol, Range: rng, Prices: []float64{1, 2, 3}}, nil
}

type stubSearch struct{}

func (stubSearch) Search(ctx context.Context, query string) ([]contracts.Suggestion, error) {
	return nil, nil
}

func quote(symbol string, changePct float64, assetType contracts.AssetType) contracts.Quote {
	return contracts.Quote{Symbol: symbol, Price: 100, ChangePercent: changePct, AssetType: assetType}
}

func newTestService(stocks, crypto *stubQuotes, newsSrc *stubNews) *Service {
	src := universe.FromEntries([]contracts.UniverseEntry{
		{Symbol: "AAPL", Sector: "Technology"},
		{Symbol: "SHOP.TO"},
		{Symbol: "BTC-USD"},
		{Symbol: "SPY"},
	})
	return NewService(src, Providers{
		Quotes: stocks,
		Crypto: crypto,
		News:   newsSrc,
		Chart:  stubChart{},
		Search: stubSearch{},
	}, nil, nil)
}

func defaultStocks() *stubQuotes {
	return &stubQuotes{quotes: map[string]contracts.Quote{
		"AAPL":    quote("AAPL", 1, contracts.AssetStock),
		"SHOP.TO": quote("SHOP.TO", 12, contracts.AssetUnknown),
		"SPY":     quote("SPY", 0, contracts.AssetETF),
	}}
}

func defaultCrypto() *stubQuotes {
	return &stubQuotes{quotes: map[string]contracts.Quote{
		"BTC-USD": quote("BTC-USD", 9, contracts.AssetCrypto),
	}}
}

func TestRankedAssets_RoutesAndRanks(t *testing.T) {
	stocks, crypto := defaultStocks(), defaultCrypto()
	svc := newTestService(stocks, crypto, &stubNews{})

	assets, err := svc.RankedAssets(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, assets, 4)

	assert.Equal(t, [][]string{{"AAPL", "SHOP.TO", "SPY"}}, stocks.asked)
	assert.Equal(t, [][]string{{"BTC-USD"}}, crypto.asked)

	// SHOP.TO 12% → 8, BTC 9% → 7, AAPL/SPY → 5 in universe order
	assert.Equal(t, "SHOP.TO", assets[0].Symbol)
	assert.Equal(t, contracts.RegionCanada, assets[0].Region)
	assert.Equal(t, contracts.AssetStock, assets[0].AssetType)
	assert.Equal(t, contracts.RiskVolatile, assets[0].RiskLevel)
	assert.Equal(t, "BTC-USD", assets[1].Symbol)
	assert.Equal(t, "AAPL", assets[2].Symbol)
	assert.Equal(t, "Technology", assets[2].Sector)
	assert.Equal(t, "SPY", assets[3].Symbol)

	snap := svc.Latest()
	assert.Len(t, snap.Assets, 4)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestRankedAssets_Filters(t *testing.T) {
	svc := newTestService(defaultStocks(), defaultCrypto(), &stubNews{})
	ctx := context.Background()

	crypto, err := svc.RankedAssets(ctx, Filter{AssetType: contracts.AssetCrypto})
	require.NoError(t, err)
	require.Len(t, crypto, 1)
	assert.Equal(t, "BTC-USD", crypto[0].Symbol)

	canada, err := svc.RankedAssets(ctx, Filter{Region: contracts.RegionCanada})
	require.NoError(t, err)
	require.Len(t, canada, 1)

	explicit, err := svc.RankedAssets(ctx, Filter{Symbols: []string{"spy", "aapl", "SPY"}})
	require.NoError(t, err)
	require.Len(t, explicit, 2)

	none, err := svc.RankedAssets(ctx, Filter{Region: contracts.RegionUK})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	// filtered requests never replace the snapshot
	assert.Empty(t, svc.Latest().Assets)
}

func TestRankedAssets_PartialFailure(t *testing.T) {
	svc := newTestService(&stubQuotes{err: errors.New("yahoo down")}, defaultCrypto(), &stubNews{})

	assets, err := svc.RankedAssets(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "BTC-USD", assets[0].Symbol)
}

func TestRankedAssets_TotalFailure(t *testing.T) {
	svc := newTestService(&stubQuotes{err: errors.New("yahoo down")}, &stubQuotes{err: errors.New("cg down")}, &stubNews{})

	_, err := svc.RankedAssets(context.Background(), Filter{})
	assert.True(t, errors.Is(err, ErrNoQuotes))
}

func TestAsset(t *testing.T) {
	svc := newTestService(defaultStocks(), defaultCrypto(), &stubNews{})
	ctx := context.Background()

	asset, err := svc.Asset(ctx, "shop.to")
	require.NoError(t, err)
	assert.Equal(t, "SHOP.TO", asset.Symbol)
	assert.Equal(t, 8, asset.Score)

	_, err = svc.Asset(ctx, "MSFT")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Asset(ctx, "  ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAsset_ProviderOutageKeepsCause(t *testing.T) {
	outage := fmt.Errorf("yahoo quote request failed: %w", httputil.ErrBreakerOpen)
	svc := newTestService(&stubQuotes{err: outage}, defaultCrypto(), &stubNews{})

	_, err := svc.Asset(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httputil.ErrBreakerOpen))
	assert.True(t, errors.Is(err, ErrNoQuotes))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestAsset_ProviderHasNoData(t *testing.T) {
	svc := newTestService(&stubQuotes{err: external.ErrNoData}, defaultCrypto(), &stubNews{})

	_, err := svc.Asset(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNews(t *testing.T) {
	newsSrc := &stubNews{items: []contracts.NewsItem{
		{Title: "Apple quietly updates app store", Link: "https://example.com/1", ProviderPublishTime: "1700000000"},
		{Title: "Apple earnings beat as buyback expands", Link: "https://example.com/2", ProviderPublishTime: "1600000000"},
	}}
	svc := newTestService(defaultStocks(), defaultCrypto(), newsSrc)

	items := svc.News(context.Background(), "aapl")
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Importance)
	assert.Equal(t, contracts.SentimentBullish, items[0].Sentiment)
	assert.Contains(t, items[0].AIInsight, "AAPL")
	assert.NotEmpty(t, items[0].UUID)
	assert.Equal(t, 2, items[1].Importance)

	newsSrc.err = errors.New("down")
	failed := svc.News(context.Background(), "AAPL")
	assert.NotNil(t, failed)
	assert.Empty(t, failed)
}

func TestChartAndSearch(t *testing.T) {
	svc := newTestService(defaultStocks(), defaultCrypto(), &stubNews{})
	ctx := context.Background()

	series, err := svc.Chart(ctx, "aapl", "5d")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, "5d", series.Range)

	_, err = svc.Chart(ctx, "FAIL", "1d")
	assert.Error(t, err)

	_, err = svc.Search(ctx, "   ")
	assert.True(t, errors.Is(err, ErrEmptyQuery))

	got, err := svc.Search(ctx, "apple")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSummary(t *testing.T) {
	svc := newTestService(defaultStocks(), defaultCrypto(), &stubNews{})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Hot)
	assert.Equal(t, 1, summary.Volatile)
	assert.Equal(t, "SHOP.TO", summary.TopSymbol)
}
