package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
)

// Name is the provider name used for routing, logs and metrics
const Name = "finnhub"

const (
	maxSuggestions  = 10
	defaultType     = "Common Stock"
	newsLookbackDay = 3
)

// Client handles communication with the Finnhub REST API
// ⭐ SSOT: Finnhub calls happen in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// NewClient creates a new Finnhub client. The key is sent as X-Finnhub-Token.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.FinnhubConfig) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.APIKey != "" {
		httpClient.WithHeader("X-Finnhub-Token", cfg.APIKey)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithProvider(Name),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		now:        time.Now,
	}
}

type searchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Symbol        string `json:"symbol"`
		Type          string `json:"type"`
	} `json:"result"`
}

// Search looks up symbols, returning at most 10 suggestions
func (c *Client) Search(ctx context.Context, query string) ([]contracts.Suggestion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub search: %w", external.ErrMissingAPIKey)
	}

	params := url.Values{}
	params.Set("q", query)
	fullURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("finnhub search failed: %w", err)
	}

	out := make([]contracts.Suggestion, 0, maxSuggestions)
	for _, r := range resp.Result {
		if len(out) == maxSuggestions {
			break
		}
		s := contracts.Suggestion{
			Symbol:   r.Symbol,
			Name:     r.Description,
			Type:     r.Type,
			Exchange: r.DisplaySymbol,
		}
		if s.Name == "" {
			s.Name = r.Symbol
		}
		if s.Type == "" {
			s.Type = defaultType
		}
		if s.Exchange == "" {
			s.Exchange = r.Symbol
		}
		out = append(out, s)
	}
	return out, nil
}

type companyNews struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// News fetches company news from the last few days
func (c *Client) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub news: %w", external.ErrMissingAPIKey)
	}

	to := c.now().UTC()
	from := to.AddDate(0, 0, -newsLookbackDay)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	fullURL := fmt.Sprintf("%s/company-news?%s", c.baseURL, params.Encode())

	var resp []companyNews
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("finnhub news failed: %w", err)
	}

	out := make([]contracts.NewsItem, 0, len(resp))
	for _, n := range resp {
		item := contracts.NewsItem{
			Title:               n.Headline,
			Publisher:           n.Source,
			Link:                n.URL,
			ProviderPublishTime: strconv.FormatInt(n.Datetime, 10),
			Type:                "STORY",
			Thumbnail:           n.Image,
		}
		if n.ID != 0 {
			item.UUID = fmt.Sprintf("finnhub-%d", n.ID)
		}
		if n.Related != "" {
			item.RelatedTickers = []string{n.Related}
		}
		out = append(out, item)
	}
	return out, nil
}
