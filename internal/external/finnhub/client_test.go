package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
)

func newTestClient(t *testing.T, key string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(httputil.New(Name, nil).DisableRetry(), nil, config.FinnhubConfig{
		APIKey:  key,
		BaseURL: server.URL,
	})
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.Header.Get("X-Finnhub-Token"))

		var items []string
		items = append(items, `{"description":"APPLE INC","displaySymbol":"AAPL","symbol":"AAPL","type":"Common Stock"}`)
		items = append(items, `{"symbol":"APC.DE"}`)
		for i := 0; i < 12; i++ {
			items = append(items, fmt.Sprintf(`{"symbol":"X%d"}`, i))
		}
		_, _ = w.Write([]byte(`{"count":14,"result":[` + strings.Join(items, ",") + `]}`))
	})

	got, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, contracts.Suggestion{Symbol: "AAPL", Name: "APPLE INC", Type: "Common Stock", Exchange: "AAPL"}, got[0])
	assert.Equal(t, contracts.Suggestion{Symbol: "APC.DE", Name: "APC.DE", Type: "Common Stock", Exchange: "APC.DE"}, got[1])
}

func TestSearch_MissingKey(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Search(context.Background(), "apple")
	assert.True(t, errors.Is(err, external.ErrMissingAPIKey))

	_, err = client.News(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, external.ErrMissingAPIKey))
}

func TestSearch_UpstreamError(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Search(context.Background(), "apple")
	assert.True(t, httputil.IsStatus(err, http.StatusUnauthorized))
}

func TestNews(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2024-03-07", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-03-10", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`[
			{"category":"company","datetime":1710000000,"headline":"Apple beats","id":42,"image":"https://img/1.png",
			 "related":"AAPL","source":"Reuters","url":"https://example.com/a"},
			{"datetime":1709990000,"headline":"No id","source":"AP","url":"https://example.com/b"}
		]`))
	})
	client.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

	items, err := client.News(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "finnhub-42", items[0].UUID)
	assert.Equal(t, "Apple beats", items[0].Title)
	assert.Equal(t, "Reuters", items[0].Publisher)
	assert.Equal(t, "1710000000", items[0].ProviderPublishTime)
	assert.Equal(t, []string{"AAPL"}, items[0].RelatedTickers)
	assert.Empty(t, items[1].UUID)
	assert.Nil(t, items[1].RelatedTickers)
}
