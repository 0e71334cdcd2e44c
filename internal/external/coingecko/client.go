package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/internal/universe"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
)

// Name is the provider name used for routing, logs and metrics
const Name = "coingecko"

// coinIDs maps ticker bases to CoinGecko coin ids
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"BNB":   "binancecoin",
	"AVAX":  "avalanche-2",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
	"MATIC": "matic-network",
}

// Client handles communication with the CoinGecko markets API
// ⭐ SSOT: CoinGecko calls happen in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	currency   string
}

// NewClient creates a new CoinGecko client. The key is optional (demo tier).
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.CoinGeckoConfig) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.APIKey != "" {
		httpClient.WithHeader("x-cg-demo-api-key", cfg.APIKey)
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithProvider(Name),
		baseURL:    cfg.BaseURL,
		currency:   currency,
	}
}

// CoinID returns the CoinGecko id for a BTC-USD style symbol
func CoinID(symbol string) (string, bool) {
	symbol = universe.Normalize(symbol)
	base, _, _ := strings.Cut(symbol, "-")
	id, ok := coinIDs[base]
	return id, ok
}

type marketCoin struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	TotalVolume              float64  `json:"total_volume"`
	High24h                  *float64 `json:"high_24h"`
	Low24h                   *float64 `json:"low_24h"`
	PriceChange24h           float64  `json:"price_change_24h"`
	PriceChangePercentage24h float64  `json:"price_change_percentage_24h"`
}

// Quotes fetches crypto quotes. Symbols without a known coin id are skipped.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	bySymbol := make(map[string]string, len(symbols))
	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		id, ok := CoinID(s)
		if !ok {
			c.logger.WithSymbol(s).Debug("no coingecko id, skipping")
			continue
		}
		if _, dup := bySymbol[id]; !dup {
			ids = append(ids, id)
		}
		bySymbol[id] = universe.Normalize(s)
	}
	if len(ids) == 0 {
		return []contracts.Quote{}, nil
	}

	params := url.Values{}
	params.Set("vs_currency", c.currency)
	params.Set("ids", strings.Join(ids, ","))
	fullURL := fmt.Sprintf("%s/coins/markets?%s", c.baseURL, params.Encode())

	var coins []marketCoin
	if err := c.httpClient.GetJSON(ctx, fullURL, &coins); err != nil {
		return nil, fmt.Errorf("coingecko markets failed: %w", err)
	}
	if len(coins) == 0 {
		return nil, external.ErrNoData
	}

	quotes := make([]contracts.Quote, 0, len(coins))
	for _, coin := range coins {
		symbol, ok := bySymbol[coin.ID]
		if !ok {
			continue
		}
		quotes = append(quotes, c.normalize(symbol, coin))
	}
	return quotes, nil
}

func (c *Client) normalize(symbol string, coin marketCoin) contracts.Quote {
	entry := universe.Classify(symbol)
	name := coin.Name
	if name == "" {
		name = symbol
	}
	return contracts.Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         coin.CurrentPrice,
		Change:        coin.PriceChange24h,
		ChangePercent: coin.PriceChangePercentage24h,
		Volume:        coin.TotalVolume,
		AssetType:     contracts.AssetCrypto,
		MarketState:   contracts.MarketRegular,
		Currency:      strings.ToUpper(c.currency),
		Exchange:      "CoinGecko",
		MarketCap:     coin.MarketCap,
		DayHigh:       coin.High24h,
		DayLow:        coin.Low24h,
		Region:        entry.Region,
		Source:        Name,
	}
}
