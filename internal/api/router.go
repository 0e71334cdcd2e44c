package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/pulse/internal/api/handlers"
	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
)

// Handlers groups everything the router mounts. Stream may be nil.
type Handlers struct {
	Market *handlers.MarketHandler
	Health *handlers.HealthHandler
	Stream http.HandlerFunc
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are configured in this function only
func NewRouter(h Handlers, log *logger.Logger, m *metrics.Metrics) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.GetHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Market endpoints
	api.HandleFunc("/market", h.Market.GetMarket).Methods("GET")
	api.HandleFunc("/market/summary", h.Market.GetSummary).Methods("GET")
	api.HandleFunc("/market-data", h.Market.GetMarket).Methods("GET") // legacy dashboard path
	api.HandleFunc("/asset/{symbol}", h.Market.GetAsset).Methods("GET")
	api.HandleFunc("/news/{symbol}", h.Market.GetNews).Methods("GET")
	api.HandleFunc("/chart/{symbol}", h.Market.GetChart).Methods("GET")
	api.HandleFunc("/search", h.Market.Search).Methods("GET")
	api.HandleFunc("/tickers", h.Market.GetTickers).Methods("GET")

	if h.Stream != nil {
		api.HandleFunc("/stream", h.Stream).Methods("GET")
	}

	// Apply middleware
	r.Use(recoveryMiddleware(log))
	r.Use(metricsMiddleware(m))
	r.Use(loggingMiddleware(log))

	return corsMiddleware(r)
}
