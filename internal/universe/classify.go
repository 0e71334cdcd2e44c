package universe

import (
	"strings"

	"github.com/wonny/pulse/internal/contracts"
)

// Classify derives region, asset type and sector from a symbol alone
func Classify(symbol string) contracts.UniverseEntry {
	symbol = Normalize(symbol)
	entry := contracts.UniverseEntry{
		Symbol:    symbol,
		Region:    contracts.RegionUS,
		AssetType: contracts.AssetStock,
		Sector:    sectors[symbol],
	}

	switch {
	case strings.HasSuffix(symbol, ".TO"):
		entry.Region = contracts.RegionCanada
	case strings.HasSuffix(symbol, ".L"):
		entry.Region = contracts.RegionUK
	case strings.Contains(symbol, "-USD"):
		entry.Region = contracts.RegionGlobal
		entry.AssetType = contracts.AssetCrypto
	case strings.HasPrefix(symbol, "^"):
		entry.AssetType = contracts.AssetIndex
	}

	if knownETFs[symbol] {
		entry.AssetType = contracts.AssetETF
	}
	return entry
}

// FromQuoteType maps a Yahoo quoteType to an asset type; ok is false when unknown
func FromQuoteType(quoteType string) (contracts.AssetType, bool) {
	switch strings.ToUpper(quoteType) {
	case "EQUITY":
		return contracts.AssetStock, true
	case "ETF":
		return contracts.AssetETF, true
	case "CRYPTOCURRENCY":
		return contracts.AssetCrypto, true
	case "INDEX":
		return contracts.AssetIndex, true
	case "OPTION":
		return contracts.AssetOptions, true
	}
	return "", false
}

// Normalize upper-cases and trims a symbol
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsCrypto reports whether a symbol is a crypto pair (BTC-USD style)
func IsCrypto(symbol string) bool {
	return Classify(symbol).AssetType == contracts.AssetCrypto
}
