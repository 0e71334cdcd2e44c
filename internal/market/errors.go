package market

import "errors"

var (
	// ErrNotFound means no provider returned data for the symbol
	ErrNotFound = errors.New("asset not found")

	// ErrEmptyQuery is returned by Search for a blank query
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrNoQuotes means every quote request failed
	ErrNoQuotes = errors.New("no quotes could be fetched")
)
