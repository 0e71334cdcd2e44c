package universe

import (
	"context"
	"fmt"

	"github.com/wonny/pulse/internal/contracts"
)

// Source provides the current tracked universe
type Source interface {
	Entries(ctx context.Context) ([]contracts.UniverseEntry, error)
}

// Static is a fixed universe (defaults, SYMBOLS override or YAML file)
type Static struct {
	entries []contracts.UniverseEntry
}

// NewStatic builds a universe from symbols, classifying each and dropping duplicates
func NewStatic(symbols []string) *Static {
	entries := make([]contracts.UniverseEntry, 0, len(symbols))
	for _, s := range symbols {
		if Normalize(s) == "" {
			continue
		}
		entries = append(entries, Classify(s))
	}
	return FromEntries(entries)
}

// FromEntries builds a universe from explicit entries, filling blanks by classification
func FromEntries(entries []contracts.UniverseEntry) *Static {
	seen := make(map[string]bool, len(entries))
	out := make([]contracts.UniverseEntry, 0, len(entries))
	for _, e := range entries {
		e = complete(e)
		if e.Symbol == "" || seen[e.Symbol] {
			continue
		}
		seen[e.Symbol] = true
		out = append(out, e)
	}
	return &Static{entries: out}
}

// Default returns the documented default universe
func Default() *Static {
	return NewStatic(DefaultSymbols)
}

// Entries returns a copy of the universe
func (s *Static) Entries(ctx context.Context) ([]contracts.UniverseEntry, error) {
	out := make([]contracts.UniverseEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// complete normalizes the symbol and fills missing metadata from Classify
func complete(e contracts.UniverseEntry) contracts.UniverseEntry {
	c := Classify(e.Symbol)
	e.Symbol = c.Symbol
	if e.Region == "" {
		e.Region = c.Region
	}
	if e.AssetType == "" {
		e.AssetType = c.AssetType
	}
	if e.Sector == "" {
		e.Sector = c.Sector
	}
	return e
}

// Symbols extracts the symbol list in order
func Symbols(entries []contracts.UniverseEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Symbol
	}
	return out
}

// Index maps symbols to their entries
func Index(entries []contracts.UniverseEntry) map[string]contracts.UniverseEntry {
	out := make(map[string]contracts.UniverseEntry, len(entries))
	for _, e := range entries {
		out[e.Symbol] = e
	}
	return out
}

// Filter keeps entries matching region and asset type; empty values match everything
func Filter(entries []contracts.UniverseEntry, region contracts.Region, assetType contracts.AssetType) []contracts.UniverseEntry {
	out := make([]contracts.UniverseEntry, 0, len(entries))
	for _, e := range entries {
		if region != "" && e.Region != region {
			continue
		}
		if assetType != "" && e.AssetType != assetType {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Lookup returns the entry for symbol, classifying it when it is not tracked
func Lookup(ctx context.Context, src Source, symbol string) (contracts.UniverseEntry, bool, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return contracts.UniverseEntry{}, false, fmt.Errorf("load universe: %w", err)
	}
	symbol = Normalize(symbol)
	for _, e := range entries {
		if e.Symbol == symbol {
			return e, true, nil
		}
	}
	return Classify(symbol), false, nil
}
