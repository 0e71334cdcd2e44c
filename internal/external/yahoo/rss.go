package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/gofeed"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
)

// RSSName is the provider name of the headline feed
const RSSName = "rss"

const defaultPublisher = "Yahoo Finance"

// RSSClient reads the Yahoo Finance headline RSS feed
type RSSClient struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	feedURL    string
	parser     *gofeed.Parser
}

// NewRSSClient creates a new headline feed client
func NewRSSClient(httpClient *httputil.Client, log *logger.Logger, feedURL string) *RSSClient {
	if log == nil {
		log = logger.Nop()
	}
	return &RSSClient{
		httpClient: httpClient,
		logger:     log.WithProvider(RSSName),
		feedURL:    feedURL,
		parser:     gofeed.NewParser(),
	}
}

// News fetches the headline feed for a symbol
func (c *RSSClient) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	params := url.Values{}
	params.Set("s", symbol)
	params.Set("region", "US")
	params.Set("lang", "en-US")
	fullURL := fmt.Sprintf("%s?%s", c.feedURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("rss request failed: %w", err)
	}
	defer resp.Body.Close()

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rss parse failed: %w", err)
	}

	publisher := feed.Title
	if publisher == "" {
		publisher = defaultPublisher
	}

	out := make([]contracts.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := contracts.NewsItem{
			UUID:           it.GUID,
			Title:          it.Title,
			Publisher:      publisher,
			Link:           it.Link,
			Type:           "STORY",
			RelatedTickers: []string{symbol},
		}
		if it.PublishedParsed != nil {
			item.ProviderPublishTime = strconv.FormatInt(it.PublishedParsed.Unix(), 10)
		} else {
			item.ProviderPublishTime = it.Published
		}
		if it.Image != nil {
			item.Thumbnail = it.Image.URL
		}
		out = append(out, item)
	}

	c.logger.WithSymbol(symbol).WithField("items", len(out)).Debug("rss feed parsed")
	return out, nil
}
