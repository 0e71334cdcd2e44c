package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pulse"

// Metrics holds all Prometheus collectors for the application
// ⭐ SSOT: collectors are registered here only
//
// All Record/Set methods are safe on a nil *Metrics so callers can run
// without instrumentation (tests, CLI one-shots).
type Metrics struct {
	// External API metrics
	ExternalRequestsTotal   *prometheus.CounterVec
	ExternalRequestDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Scoring metrics
	RankDuration   prometheus.Histogram
	ActivityScores prometheus.Histogram
	RiskLevels     *prometheus.CounterVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec

	// Stream / scheduler metrics
	StreamClients prometheus.Gauge
	JobRuns       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

var scoreBuckets = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// New creates and registers all collectors on reg
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ExternalRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of upstream provider requests",
			},
			[]string{"provider", "status"},
		),
		ExternalRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of upstream provider requests in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"provider"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"method", "route"},
		),
		RankDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "rank_duration_seconds",
				Help:      "Duration of a full fetch and rank cycle in seconds",
				Buckets:   durationBuckets,
			},
		),
		ActivityScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "activity_score",
				Help:      "Distribution of activity scores",
				Buckets:   scoreBuckets,
			},
		),
		RiskLevels: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scoring",
				Name:      "risk_levels_total",
				Help:      "Scored assets by risk level",
			},
			[]string{"level"},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Number of times a circuit breaker opened",
			},
			[]string{"breaker"},
		),
		StreamClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "clients",
				Help:      "Connected WebSocket clients",
			},
		),
		JobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "job_runs_total",
				Help:      "Scheduled job runs by outcome",
			},
			[]string{"job", "status"},
		),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordExternalRequest records one upstream call. status is the HTTP code, or 0 on transport error.
func (m *Metrics) RecordExternalRequest(provider string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.ExternalRequestsTotal.WithLabelValues(provider, label).Inc()
	m.ExternalRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordHTTPRequest records one served API request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRank records the duration of a rank cycle
func (m *Metrics) RecordRank(d time.Duration) {
	if m == nil {
		return
	}
	m.RankDuration.Observe(d.Seconds())
}

// RecordScore records one scored asset
func (m *Metrics) RecordScore(score int, riskLevel string) {
	if m == nil {
		return
	}
	m.ActivityScores.Observe(float64(score))
	m.RiskLevels.WithLabelValues(riskLevel).Inc()
}

// RecordCache records a cache hit or miss for a request kind
func (m *Metrics) RecordCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(kind, result).Inc()
}

// SetCircuitBreakerState sets the state gauge (0=closed, 1=half-open, 2=open)
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerTrip counts a transition into the open state
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	if m == nil {
		return
	}
	m.CircuitBreakerTrips.WithLabelValues(name).Inc()
}

// SetStreamClients sets the number of connected WebSocket clients
func (m *Metrics) SetStreamClients(n int) {
	if m == nil {
		return
	}
	m.StreamClients.Set(float64(n))
}

// RecordJobRun records a scheduler job outcome
func (m *Metrics) RecordJobRun(job string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	m.JobRuns.WithLabelValues(job, status).Inc()
}
