package contracts

// RiskLevel is the risk tier of a scored asset
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVolatile RiskLevel = "VOLATILE"
)

// Trend is the short-term price direction
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// RiskAssessment is a risk tier plus the rule that produced it
type RiskAssessment struct {
	Level  RiskLevel `json:"level"`
	Reason string    `json:"reason,omitempty"`
}

// ScoredAsset is a Quote annotated by the scoring engine
// ⭐ SSOT: the card shape served to the dashboard
type ScoredAsset struct {
	Quote
	Score          int       `json:"score"` // 1-10
	RiskLevel      RiskLevel `json:"riskLevel"`
	RiskReason     string    `json:"riskReason,omitempty"`
	TrendDirection Trend     `json:"trendDirection"`
}

// IsHot reports whether the asset counts as hot on the dashboard (score >= 7)
func (s *ScoredAsset) IsHot() bool {
	return s.Score >= HotScoreThreshold
}

// HotScoreThreshold is the minimum score of a "hot" asset
const HotScoreThreshold = 7

// MarketSummary holds the dashboard counters for one ranked snapshot
type MarketSummary struct {
	Total     int               `json:"total"`
	Hot       int               `json:"hot"`
	Volatile  int               `json:"volatile"`
	Gainers   int               `json:"gainers"`
	Losers    int               `json:"losers"`
	ByRegion  map[Region]int    `json:"byRegion"`
	ByRisk    map[RiskLevel]int `json:"byRisk"`
	TopSymbol string            `json:"topSymbol,omitempty"`
}
