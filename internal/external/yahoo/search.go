package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/pulse/internal/contracts"
)

// maxSuggestions caps search results
const maxSuggestions = 10

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
		TypeDisp  string `json:"typeDisp"`
		Exchange  string `json:"exchange"`
		ExchDisp  string `json:"exchDisp"`
	} `json:"quotes"`
	News []rawNews `json:"news"`
}

type rawNews struct {
	UUID                string     `json:"uuid"`
	Title               string     `json:"title"`
	Publisher           string     `json:"publisher"`
	Link                string     `json:"link"`
	ProviderPublishTime flexString `json:"providerPublishTime"`
	Type                string     `json:"type"`
	Thumbnail           *struct {
		Resolutions []struct {
			URL string `json:"url"`
		} `json:"resolutions"`
	} `json:"thumbnail"`
	RelatedTickers []string `json:"relatedTickers"`
}

func (c *Client) search(ctx context.Context, query string, quotes, news int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", fmt.Sprint(quotes))
	params.Set("newsCount", fmt.Sprint(news))
	fullURL := fmt.Sprintf("%s/v1/finance/search?%s", c.searchURL, params.Encode())

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("yahoo search request failed: %w", err)
	}
	return &resp, nil
}

// Search looks up symbols matching query
func (c *Client) Search(ctx context.Context, query string) ([]contracts.Suggestion, error) {
	resp, err := c.search(ctx, query, maxSuggestions, 0)
	if err != nil {
		return nil, err
	}

	out := make([]contracts.Suggestion, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		if name == "" {
			name = q.Symbol
		}
		typ := q.TypeDisp
		if typ == "" {
			typ = q.QuoteType
		}
		exchange := q.ExchDisp
		if exchange == "" {
			exchange = q.Exchange
		}
		out = append(out, contracts.Suggestion{Symbol: q.Symbol, Name: name, Type: typ, Exchange: exchange})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// News fetches headlines for a symbol from the search endpoint
func (c *Client) News(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	resp, err := c.search(ctx, symbol, 0, 20)
	if err != nil {
		return nil, err
	}

	out := make([]contracts.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		item := contracts.NewsItem{
			UUID:                n.UUID,
			Title:               n.Title,
			Publisher:           n.Publisher,
			Link:                n.Link,
			ProviderPublishTime: string(n.ProviderPublishTime),
			Type:                n.Type,
			RelatedTickers:      n.RelatedTickers,
		}
		if n.Thumbnail != nil && len(n.Thumbnail.Resolutions) > 0 {
			item.Thumbnail = n.Thumbnail.Resolutions[0].URL
		}
		out = append(out, item)
	}
	return out, nil
}

// flexString accepts a JSON number or string and keeps its text
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
