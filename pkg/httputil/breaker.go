package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
)

// ErrBreakerOpen is returned when a provider's breaker rejects a request
var ErrBreakerOpen = errors.New("circuit breaker open")

// BreakerConfig holds configuration for each circuit breaker
type BreakerConfig struct {
	MaxRequests uint32        // requests allowed in half-open state
	Interval    time.Duration // cyclic period of the closed state to clear counts
	Timeout     time.Duration // open period before moving to half-open
	MinRequests uint32        // requests needed before the failure ratio is considered
	FailureRate float64       // failure ratio that trips the breaker
}

// DefaultBreakerConfig trips at >=50% failures over at least 5 requests
var DefaultBreakerConfig = BreakerConfig{
	MaxRequests: 3,
	Interval:    time.Minute,
	Timeout:     30 * time.Second,
	MinRequests: 5,
	FailureRate: 0.5,
}

// BreakerRegistry manages one circuit breaker per upstream provider
type BreakerRegistry struct {
	mu       sync.RWMutex
	breakers map[string]*gobreaker.CircuitBreaker[*http.Response]
	config   BreakerConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// BreakerStatus is the reported state of one breaker
type BreakerStatus struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	TotalFailures       uint32 `json:"totalFailures"`
	ConsecutiveFailures uint32 `json:"consecutiveFailures"`
}

// NewBreakerRegistry creates an empty registry
func NewBreakerRegistry(cfg BreakerConfig, log *logger.Logger, m *metrics.Metrics) *BreakerRegistry {
	if log == nil {
		log = logger.Nop()
	}
	return &BreakerRegistry{
		breakers: make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
		config:   cfg,
		logger:   log,
		metrics:  m,
	}
}

// Get returns (or creates) the breaker for name
func (r *BreakerRegistry) Get(name string) *gobreaker.CircuitBreaker[*http.Response] {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok = r.breakers[name]; ok {
		return cb
	}

	cfg := r.config
	cb = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		IsSuccessful: func(err error) bool {
			// client errors (bad symbol, missing key) say nothing about upstream health
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return !IsRetryableError(statusErr.StatusCode)
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")

			r.metrics.SetCircuitBreakerState(name, stateToInt(to))
			if to == gobreaker.StateOpen {
				r.metrics.RecordCircuitBreakerTrip(name)
			}
		},
	})
	r.breakers[name] = cb
	return cb
}

// Execute runs fn through the named breaker
func (r *BreakerRegistry) Execute(ctx context.Context, name string, fn func() (*http.Response, error)) (*http.Response, error) {
	resp, err := r.Get(name).Execute(func() (*http.Response, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn()
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s unavailable: %w", name, ErrBreakerOpen)
	}
	return resp, err
}

// Status returns the state of every breaker, sorted by name
func (r *BreakerRegistry) Status() []BreakerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BreakerStatus, 0, len(r.breakers))
	for name, cb := range r.breakers {
		counts := cb.Counts()
		out = append(out, BreakerStatus{
			Name:                name,
			State:               cb.State().String(),
			Requests:            counts.Requests,
			TotalFailures:       counts.TotalFailures,
			ConsecutiveFailures: counts.ConsecutiveFailures,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// stateToInt converts a breaker state for the metrics gauge
// 0=closed, 1=half-open, 2=open
func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
