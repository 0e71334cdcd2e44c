package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/pkg/httputil"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, external.ErrMissingAPIKey), errors.Is(err, httputil.ErrBreakerOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
