package scoring

import "github.com/wonny/pulse/internal/contracts"

// trendThreshold is the |changePercent| below which a move is FLAT
const trendThreshold = 0.1

// ClassifyTrend maps a percentage change to UP, DOWN or FLAT
func ClassifyTrend(changePercent float64) contracts.Trend {
	if !isFinite(changePercent) {
		return contracts.TrendFlat
	}
	switch {
	case changePercent > trendThreshold:
		return contracts.TrendUp
	case changePercent < -trendThreshold:
		return contracts.TrendDown
	default:
		return contracts.TrendFlat
	}
}
