package newsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
)

// Name is the provider name used for routing, logs and metrics
const Name = "newsapi"

// Client handles communication with the NewsAPI.org /everything endpoint
// ⭐ SSOT: NewsAPI calls happen in this package only
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	baseURL      string
	apiKey       string
	pageSize     int
	lookbackDays int
	now          func() time.Time
}

// NewClient creates a new NewsAPI client. The key is sent as X-Api-Key.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.NewsAPIConfig) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.APIKey != "" {
		httpClient.WithHeader("X-Api-Key", cfg.APIKey)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 3
	}
	return &Client{
		httpClient:   httpClient,
		logger:       log.WithProvider(Name),
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		pageSize:     pageSize,
		lookbackDays: lookback,
		now:          time.Now,
	}
}

type everythingResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// SearchTerm strips exchange suffixes so "SHOP.TO" searches for "SHOP"
func SearchTerm(symbol string) string {
	for _, suffix := range []string{".TO", ".L"} {
		if strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix)
		}
	}
	return symbol
}

// News fetches relevant English articles from the lookback window
func (c *Client) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w", external.ErrMissingAPIKey)
	}

	from := c.now().UTC().AddDate(0, 0, -c.lookbackDays)

	params := url.Values{}
	params.Set("q", SearchTerm(symbol))
	params.Set("from", from.Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	fullURL := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())

	var resp everythingResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", resp.Code, resp.Message)
	}

	out := make([]contracts.NewsItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		// removed articles come back as "[Removed]" placeholders
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		out = append(out, contracts.NewsItem{
			Title:               a.Title,
			Publisher:           a.Source.Name,
			Link:                a.URL,
			ProviderPublishTime: a.PublishedAt,
			Type:                "STORY",
			Thumbnail:           a.URLToImage,
			RelatedTickers:      []string{symbol},
		})
	}
	return out, nil
}
