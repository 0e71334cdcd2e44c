// Package external holds the upstream provider clients. Each subpackage
// normalizes its provider's payloads into internal/contracts types.
package external

import "errors"

var (
	// ErrNoData means the provider answered but had nothing for the request
	ErrNoData = errors.New("no data returned")

	// ErrMissingAPIKey means the provider needs a key that is not configured
	ErrMissingAPIKey = errors.New("API key not configured")
)
