package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/pkg/metrics"
)

func TestBreakerRegistry_Get(t *testing.T) {
	registry := NewBreakerRegistry(DefaultBreakerConfig, nil, nil)

	a := registry.Get("yahoo")
	b := registry.Get("yahoo")
	c := registry.Get("fmp")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Len(t, registry.Status(), 2)
}

func TestBreakerRegistry_Trips(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	registry := NewBreakerRegistry(DefaultBreakerConfig, nil, m)

	failing := func() (*http.Response, error) {
		return nil, &StatusError{StatusCode: http.StatusInternalServerError}
	}

	for i := 0; i < 5; i++ {
		_, err := registry.Execute(context.Background(), "newsapi", failing)
		require.Error(t, err)
	}

	_, err := registry.Execute(context.Background(), "newsapi", failing)
	assert.True(t, errors.Is(err, ErrBreakerOpen))

	status := registry.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "open", status[0].State)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("newsapi")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("newsapi")))
}

func TestBreakerRegistry_ClientErrorsDoNotTrip(t *testing.T) {
	registry := NewBreakerRegistry(DefaultBreakerConfig, nil, nil)

	notFound := func() (*http.Response, error) {
		return nil, &StatusError{StatusCode: http.StatusNotFound}
	}

	for i := 0; i < 10; i++ {
		_, err := registry.Execute(context.Background(), "finnhub", notFound)
		assert.False(t, errors.Is(err, ErrBreakerOpen))
	}
	assert.Equal(t, "closed", registry.Status()[0].State)
}

func TestClientWithBreakers(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultBreakerConfig
	cfg.Timeout = time.Minute
	registry := NewBreakerRegistry(cfg, nil, nil)
	client := New("fmp", nil).DisableRetry().WithBreakers(registry)

	for i := 0; i < 5; i++ {
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
	}

	_, err := client.Get(context.Background(), server.URL)
	assert.True(t, errors.Is(err, ErrBreakerOpen))
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
