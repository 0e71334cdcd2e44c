package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/pulse/internal/cache"
	"github.com/wonny/pulse/internal/scheduler"
	"github.com/wonny/pulse/internal/stream"
	"github.com/wonny/pulse/pkg/database"
	"github.com/wonny/pulse/pkg/httputil"
)

// HealthHandler reports service health. Every dependency is optional.
type HealthHandler struct {
	Cache          *cache.Cache
	Breakers       *httputil.BreakerRegistry
	Hub            *stream.Hub
	Scheduler      *scheduler.Scheduler
	DB             *database.DB
	UniverseSource string

	started time.Time
}

// NewHealthHandler creates a health handler; uptime is measured from now
func NewHealthHandler(h HealthHandler) *HealthHandler {
	h.started = time.Now()
	return &h
}

// HealthResponse is the /health payload
type HealthResponse struct {
	Status        string                        `json:"status"`
	Service       string                        `json:"service"`
	Uptime        string                        `json:"uptime"`
	Universe      string                        `json:"universe,omitempty"`
	Cache         *cache.Stats                  `json:"cache,omitempty"`
	Breakers      []httputil.BreakerStatus      `json:"breakers,omitempty"`
	StreamClients int                           `json:"streamClients"`
	Jobs          map[string]scheduler.JobStats `json:"jobs,omitempty"`
	Database      *database.HealthStatus        `json:"database,omitempty"`
}

// GetHealth returns server health status
// GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Service:  "pulse-api",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Universe: h.UniverseSource,
	}

	if h.Cache != nil {
		stats := h.Cache.Stats()
		resp.Cache = &stats
	}
	if h.Breakers != nil {
		resp.Breakers = h.Breakers.Status()
		for _, b := range resp.Breakers {
			if b.State == "open" {
				resp.Status = "degraded"
			}
		}
	}
	if h.Hub != nil {
		resp.StreamClients = h.Hub.Clients()
	}
	if h.Scheduler != nil {
		resp.Jobs = h.Scheduler.GetJobStats()
	}

	status := http.StatusOK
	if h.DB != nil {
		health, err := h.DB.HealthCheck(r.Context())
		resp.Database = health
		if err != nil {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, resp)
}
