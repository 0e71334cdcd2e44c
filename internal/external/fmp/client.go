package fmp

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
const Name = "fmp"

const batchSize = 50

// Client handles communication with the Financial Modeling Prep API
// ⭐ SSOT: FMP calls happen in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.FMPConfig) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithProvider(Name),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

type rawQuote struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	ChangesPercentage float64  `json:"changesPercentage"`
	Change            float64  `json:"change"`
	DayLow            *float64 `json:"dayLow"`
	DayHigh           *float64 `json:"dayHigh"`
	YearHigh          *float64 `json:"yearHigh"`
	YearLow           *float64 `json:"yearLow"`
	MarketCap         *float64 `json:"marketCap"`
	Volume            float64  `json:"volume"`
	AvgVolume         float64  `json:"avgVolume"`
	Exchange          string   `json:"exchange"`
	EPS               *float64 `json:"eps"`
	PE                *float64 `json:"pe"`
}

// Quotes fetches batch quotes, which carry avgVolume for the volume-spike rule
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fmp quotes: %w", external.ErrMissingAPIKey)
	}
	if len(symbols) == 0 {
		return []contracts.Quote{}, nil
	}

	out := make([]contracts.Quote, 0, len(symbols))
	var lastErr error
	for start := 0; start < len(symbols); start += batchSize {
		end := min(start+batchSize, len(symbols))
		quotes, err := c.fetchBatch(ctx, symbols[start:end])
		if err != nil {
			c.logger.WithError(err).WithField("symbols", end-start).Warn("quote batch failed")
			lastErr = err
			continue
		}
		out = append(out, quotes...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	escaped := make([]string, len(symbols))
	for i, s := range symbols {
		escaped[i] = url.PathEscape(s)
	}
	path := strings.Join(escaped, ",")
	fullURL := fmt.Sprintf("%s/quote/%s?%s", c.baseURL, path, params.Encode())

	var resp []rawQuote
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("fmp quote request failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, external.ErrNoData
	}

	quotes := make([]contracts.Quote, 0, len(resp))
	for _, raw := range resp {
		if raw.Symbol == "" {
			continue
		}
		quotes = append(quotes, normalizeQuote(raw))
	}
	return quotes, nil
}

func normalizeQuote(raw rawQuote) contracts.Quote {
	entry := universe.Classify(raw.Symbol)
	name := raw.Name
	if name == "" {
		name = entry.Symbol
	}
	exchange := raw.Exchange
	if exchange == "" {
		exchange = "Unknown"
	}
	return contracts.Quote{
		Symbol:           entry.Symbol,
		Name:             name,
		Price:            raw.Price,
		Change:           raw.Change,
		ChangePercent:    raw.ChangesPercentage,
		Volume:           raw.Volume,
		AvgVolume:        raw.AvgVolume,
		AssetType:        entry.AssetType,
		FiftyTwoWeekHigh: raw.YearHigh,
		FiftyTwoWeekLow:  raw.YearLow,
		Currency:         "USD",
		Exchange:         exchange,
		MarketCap:        raw.MarketCap,
		TrailingPE:       raw.PE,
		DayHigh:          raw.DayHigh,
		DayLow:           raw.DayLow,
		EPS:              raw.EPS,
		Region:           entry.Region,
		Sector:           entry.Sector,
		Source:           Name,
	}
}
