package yahoo

import (
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/httputil"
	"github.com/wonny/pulse/pkg/logger"
)

// Name is the provider name used for routing, logs and metrics
const Name = "yahoo"

// Client handles communication with the Yahoo Finance JSON endpoints
// ⭐ SSOT: Yahoo Finance calls happen in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	quoteURL   string
	searchURL  string
	batchSize  int
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.YahooConfig) *Client {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithProvider(Name),
		quoteURL:   cfg.QuoteURL,
		searchURL:  cfg.SearchURL,
		batchSize:  batch,
	}
}
