package contracts

import "context"

// ChartSeries holds closing prices for one symbol and range
type ChartSeries struct {
	Symbol        string    `json:"symbol"`
	Range         string    `json:"range"`
	Interval      string    `json:"interval"`
	Prices        []float64 `json:"prices"`
	Timestamps    []int64   `json:"timestamps,omitempty"`
	PreviousClose float64   `json:"previousClose"`
}

// Suggestion is one symbol search result
type Suggestion struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange"`
}

// UniverseEntry is one tracked symbol with its dashboard metadata
type UniverseEntry struct {
	Symbol    string    `json:"symbol" yaml:"symbol" validate:"required"`
	Region    Region    `json:"region" yaml:"region"`
	AssetType AssetType `json:"assetType" yaml:"assetType"`
	Sector    string    `json:"sector,omitempty" yaml:"sector"`
}

// QuoteSource fetches quotes. Symbols that fail are dropped, not errors.
type QuoteSource interface {
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
}

// NewsSource fetches headlines for a symbol
type NewsSource interface {
	News(ctx context.Context, symbol string) ([]NewsItem, error)
}

// ChartSource fetches closing prices for a symbol and range
type ChartSource interface {
	Chart(ctx context.Context, symbol, rng string) (*ChartSeries, error)
}

// SearchSource looks up symbols by free-text query
type SearchSource interface {
	Search(ctx context.Context, query string) ([]Suggestion, error)
}
