package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
)

// Supported chart ranges and their bar intervals
var chartIntervals = map[string]string{
	"1d":  "15m",
	"5d":  "1h",
	"1mo": "1h",
	"1y":  "1d",
}

// DefaultRange is used when the requested range is not supported
const DefaultRange = "1d"

// IntervalFor returns the normalized range and its interval
func IntervalFor(rng string) (string, string) {
	if interval, ok := chartIntervals[rng]; ok {
		return rng, interval
	}
	return DefaultRange, chartIntervals[DefaultRange]
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// Chart fetches closing prices for a range. Null closes are dropped.
func (c *Client) Chart(ctx context.Context, symbol, rng string) (*contracts.ChartSeries, error) {
	rng, interval := IntervalFor(rng)

	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.quoteURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("yahoo chart request failed: %w", err)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo chart error %s: %s", e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: %w", symbol, external.ErrNoData)
	}

	result := resp.Chart.Result[0]
	series := &contracts.ChartSeries{
		Symbol:   result.Meta.Symbol,
		Range:    rng,
		Interval: interval,
		Prices:   []float64{},
	}
	if series.Symbol == "" {
		series.Symbol = symbol
	}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, p := range closes {
			if p == nil {
				continue
			}
			series.Prices = append(series.Prices, *p)
			if i < len(result.Timestamp) {
				series.Timestamps = append(series.Timestamps, result.Timestamp[i])
			}
		}
	}

	switch {
	case result.Meta.PreviousClose != nil && *result.Meta.PreviousClose != 0:
		series.PreviousClose = *result.Meta.PreviousClose
	case result.Meta.ChartPreviousClose != nil && *result.Meta.ChartPreviousClose != 0:
		series.PreviousClose = *result.Meta.ChartPreviousClose
	case len(series.Prices) > 0:
		series.PreviousClose = series.Prices[0]
	}

	return series, nil
}
