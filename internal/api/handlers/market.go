package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/pkg/logger"
)

// MarketService is what the market endpoints need from internal/market
type MarketService interface {
	RankedAssets(ctx context.Context, f market.Filter) ([]contracts.ScoredAsset, error)
	Summary(ctx context.Context) (contracts.MarketSummary, error)
	Asset(ctx context.Context, symbol string) (*contracts.ScoredAsset, error)
	News(ctx context.Context, symbol string) []contracts.AnalyzedNews
	Chart(ctx context.Context, symbol, rng string) (*contracts.ChartSeries, error)
	Search(ctx context.Context, query string) ([]contracts.Suggestion, error)
	Universe(ctx context.Context) ([]contracts.UniverseEntry, error)
}

// MarketHandler handles the dashboard data endpoints
// ⭐ SSOT: market API handlers live in this struct only
type MarketHandler struct {
	service MarketService
	logger  *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(service MarketService, log *logger.Logger) *MarketHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &MarketHandler{
		service: service,
		logger:  log,
	}
}

// GetMarket returns ranked assets
// GET /api/market?symbols=AAPL,MSFT&region=US&assetType=Stock
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseFilter(r)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	assets, err := h.service.RankedAssets(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank market data")
		respondError(w, statusFor(err), "Failed to fetch market data")
		return
	}

	respondJSON(w, http.StatusOK, assets)
}

// GetSummary returns the dashboard counters
// GET /api/market/summary
func (h *MarketHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build market summary")
		respondError(w, statusFor(err), "Failed to fetch market data")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetAsset returns a single scored asset
// GET /api/asset/{symbol}
func (h *MarketHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	asset, err := h.service.Asset(r.Context(), symbol)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).WithSymbol(symbol).Error("Failed to fetch asset")
		}
		respondError(w, status, "Asset not available: "+strings.ToUpper(symbol))
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// GetNews returns analyzed headlines; upstream failures yield an empty list
// GET /api/news/{symbol}
func (h *MarketHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	respondJSON(w, http.StatusOK, h.service.News(r.Context(), symbol))
}

// GetChart returns closing prices
// GET /api/chart/{symbol}?range=1d|5d|1mo|1y
func (h *MarketHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "1d"
	}

	series, err := h.service.Chart(r.Context(), symbol, rng)
	if err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to fetch chart")
		respondError(w, statusFor(err), "Failed to fetch chart data")
		return
	}

	respondJSON(w, http.StatusOK, series)
}

// Search returns symbol suggestions
// GET /api/search?q=apple
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			respondError(w, status, "Query parameter q is required")
			return
		}
		h.logger.WithError(err).Error("Search failed")
		respondError(w, status, "Search failed")
		return
	}

	respondJSON(w, http.StatusOK, suggestions)
}

// GetTickers returns the configured universe
// GET /api/tickers
func (h *MarketHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Universe(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load universe")
		respondError(w, http.StatusInternalServerError, "Failed to load universe")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// parseFilter reads symbols/region/assetType; a non-empty message means a bad request
func parseFilter(r *http.Request) (market.Filter, string) {
	q := r.URL.Query()
	var f market.Filter

	if raw := q.Get("symbols"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Symbols = append(f.Symbols, s)
			}
		}
	}

	if raw := q.Get("region"); raw != "" && !strings.EqualFold(raw, "all") {
		f.Region = contracts.ParseRegion(raw)
		if f.Region == "" {
			return f, "Unknown region: " + raw
		}
	}

	if raw := q.Get("assetType"); raw != "" && !strings.EqualFold(raw, "all") {
		f.AssetType = contracts.ParseAssetType(raw)
		if f.AssetType == contracts.AssetUnknown && !strings.EqualFold(raw, string(contracts.AssetUnknown)) {
			return f, "Unknown assetType: " + raw
		}
	}

	return f, ""
}
