package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

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

	return NewClient(httputil.New(Name, nil).DisableRetry(), nil, config.FMPConfig{
		APIKey:  key,
		BaseURL: server.URL,
	})
}

func TestQuotes(t *testing.T) {
	client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/AAPL,SPY", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`[
			{"symbol":"AAPL","name":"Apple Inc.","price":190,"changesPercentage":2.5,"change":4.6,
			 "volume":90000000,"avgVolume":50000000,"yearHigh":199.6,"exchange":"NASDAQ","pe":29.1},
			{"symbol":"SPY","price":510,"changesPercentage":0.05}
		]`))
	})

	quotes, err := client.Quotes(context.Background(), []string{"AAPL", "SPY"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	aapl := quotes[0]
	assert.Equal(t, 2.5, aapl.ChangePercent)
	assert.Equal(t, float64(50000000), aapl.AvgVolume)
	assert.Equal(t, "NASDAQ", aapl.Exchange)
	require.NotNil(t, aapl.FiftyTwoWeekHigh)
	assert.Equal(t, 199.6, *aapl.FiftyTwoWeekHigh)
	assert.Equal(t, contracts.AssetStock, aapl.AssetType)

	spy := quotes[1]
	assert.Equal(t, "SPY", spy.Name)
	assert.Equal(t, contracts.AssetETF, spy.AssetType)
	assert.Equal(t, "Unknown", spy.Exchange)
	assert.Equal(t, Name, spy.Source)
}

func TestQuotes_MissingKey(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Quotes(context.Background(), []string{"AAPL"})
	assert.True(t, errors.Is(err, external.ErrMissingAPIKey))
}

func TestQuotes_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Quotes(context.Background(), []string{"AAPL"})
	assert.True(t, httputil.IsStatus(err, http.StatusForbidden))
}
