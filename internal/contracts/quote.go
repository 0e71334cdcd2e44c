package contracts

import "strings"

// AssetType classifies an instrument for scoring
type AssetType string

const (
	AssetStock   AssetType = "Stock"
	AssetETF     AssetType = "ETF"
	AssetCrypto  AssetType = "Crypto"
	AssetIndex   AssetType = "Index"
	AssetOptions AssetType = "Options"
	AssetUnknown AssetType = "Unknown"
)

// ParseAssetType maps a case-insensitive name to an AssetType (Unknown when unrecognized)
func ParseAssetType(s string) AssetType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "equity":
		return AssetStock
	case "etf":
		return AssetETF
	case "crypto", "cryptocurrency":
		return AssetCrypto
	case "index":
		return AssetIndex
	case "options", "option":
		return AssetOptions
	default:
		return AssetUnknown
	}
}

// Region is the listing region used for dashboard filters
type Region string

const (
	RegionUS     Region = "US"
	RegionUK     Region = "UK"
	RegionCanada Region = "Canada"
	RegionGlobal Region = "Global"
)

// ParseRegion maps a case-insensitive name to a Region ("" when unrecognized)
func ParseRegion(s string) Region {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "us", "usa":
		return RegionUS
	case "uk", "gb":
		return RegionUK
	case "canada", "ca":
		return RegionCanada
	case "global":
		return RegionGlobal
	default:
		return ""
	}
}

// Market states
const (
	MarketRegular = "REGULAR"
	MarketClosed  = "CLOSED"
	MarketPre     = "PRE"
	MarketPost    = "POST"
)

// Quote is a provider-neutral market snapshot for one symbol
// ⭐ SSOT: every provider normalizes into this shape before scoring
type Quote struct {
	Symbol        string    `json:"symbol" validate:"required"`
	Name          string    `json:"name"`
	Price         float64   `json:"price" validate:"gte=0"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"` // already in percent (2.5 = +2.5%)
	Volume        float64   `json:"volume" validate:"gte=0"`
	AvgVolume     float64   `json:"avgVolume" validate:"gte=0"` // 0 = no history
	AssetType     AssetType `json:"assetType" validate:"required,oneof=Stock ETF Crypto Index Options Unknown"`

	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow,omitempty"`

	// Pass-through descriptive fields
	MarketState   string   `json:"marketState,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Exchange      string   `json:"exchange,omitempty"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	TrailingPE    *float64 `json:"trailingPE,omitempty"`
	DayHigh       *float64 `json:"dayHigh,omitempty"`
	DayLow        *float64 `json:"dayLow,omitempty"`
	DividendYield *float64 `json:"dividendYield,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Region        Region   `json:"region,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Source        string   `json:"source,omitempty"` // provider name
}

// Float returns a pointer to v, for optional quote fields
func Float(v float64) *float64 {
	return &v
}
