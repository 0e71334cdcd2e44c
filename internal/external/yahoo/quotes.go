package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/internal/universe"
)

// maxConcurrentBatches bounds parallel quote requests
const maxConcurrentBatches = 4

type quoteResponse struct {
	QuoteResponse struct {
		Result []rawQuote `json:"result"`
		Error  *apiError  `json:"error"`
	} `json:"quoteResponse"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type rawQuote struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	QuoteType                  string   `json:"quoteType"`
	RegularMarketPrice         float64  `json:"regularMarketPrice"`
	RegularMarketChange        float64  `json:"regularMarketChange"`
	RegularMarketChangePercent float64  `json:"regularMarketChangePercent"`
	RegularMarketVolume        float64  `json:"regularMarketVolume"`
	AverageDailyVolume3Month   float64  `json:"averageDailyVolume3Month"`
	MarketState                string   `json:"marketState"`
	Currency                   string   `json:"currency"`
	FullExchangeName           string   `json:"fullExchangeName"`
	MarketCap                  *float64 `json:"marketCap"`
	TrailingPE                 *float64 `json:"trailingPE"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	DividendYield              *float64 `json:"dividendYield"`
	EpsTrailingTwelveMonths    *float64 `json:"epsTrailingTwelveMonths"`
	Beta                       *float64 `json:"beta"`
}

// Quotes fetches quotes in batches. Failed batches are logged and skipped.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	if len(symbols) == 0 {
		return []contracts.Quote{}, nil
	}

	batches := chunk(symbols, c.batchSize)
	results := make([][]contracts.Quote, len(batches))

	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for i, batch := range batches {
		g.Go(func() error {
			quotes, err := c.fetchBatch(gctx, batch)
			if err != nil {
				c.logger.WithError(err).WithField("symbols", len(batch)).Warn("quote batch failed")
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			results[i] = quotes
			return nil
		})
	}
	_ = g.Wait()

	out := make([]contracts.Quote, 0, len(symbols))
	for _, r := range results {
		out = append(out, r...)
	}

	if len(out) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all %d quote batches failed: %w", len(batches), failures[0])
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, symbols []string) ([]contracts.Quote, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	fullURL := fmt.Sprintf("%s/v7/finance/quote?%s", c.quoteURL, params.Encode())

	var resp quoteResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("yahoo quote request failed: %w", err)
	}
	if e := resp.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("yahoo quote error %s: %s", e.Code, e.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, external.ErrNoData
	}

	quotes := make([]contracts.Quote, 0, len(resp.QuoteResponse.Result))
	for _, raw := range resp.QuoteResponse.Result {
		if raw.Symbol == "" {
			continue
		}
		quotes = append(quotes, normalizeQuote(raw))
	}
	return quotes, nil
}

// normalizeQuote maps a Yahoo payload to a Quote
func normalizeQuote(raw rawQuote) contracts.Quote {
	entry := universe.Classify(raw.Symbol)
	if t, ok := universe.FromQuoteType(raw.QuoteType); ok {
		entry.AssetType = t
	}

	name := raw.ShortName
	if name == "" {
		name = raw.LongName
	}
	if name == "" {
		name = raw.Symbol
	}

	marketState := contracts.MarketClosed
	if raw.MarketState == contracts.MarketRegular {
		marketState = contracts.MarketRegular
	}

	currency := raw.Currency
	if currency == "" {
		currency = "USD"
	}
	exchange := raw.FullExchangeName
	if exchange == "" {
		exchange = "Unknown"
	}

	return contracts.Quote{
		Symbol:           entry.Symbol,
		Name:             name,
		Price:            raw.RegularMarketPrice,
		Change:           raw.RegularMarketChange,
		ChangePercent:    raw.RegularMarketChangePercent,
		Volume:           raw.RegularMarketVolume,
		AvgVolume:        raw.AverageDailyVolume3Month,
		AssetType:        entry.AssetType,
		FiftyTwoWeekHigh: raw.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  raw.FiftyTwoWeekLow,
		MarketState:      marketState,
		Currency:         currency,
		Exchange:         exchange,
		MarketCap:        raw.MarketCap,
		TrailingPE:       raw.TrailingPE,
		DayHigh:          raw.RegularMarketDayHigh,
		DayLow:           raw.RegularMarketDayLow,
		DividendYield:    raw.DividendYield,
		EPS:              raw.EpsTrailingTwelveMonths,
		Beta:             raw.Beta,
		Region:           entry.Region,
		Sector:           entry.Sector,
		Source:           Name,
	}
}

func chunk(symbols []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		out = append(out, symbols[start:end])
	}
	return out
}
