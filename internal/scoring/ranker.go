package scoring

import (
	"sort"
	"time"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/logger"
	"github.com/wonny/pulse/pkg/metrics"
)

// Score annotates a single quote
func Score(q contracts.Quote) contracts.ScoredAsset {
	risk := AssessRisk(q)
	return contracts.ScoredAsset{
		Quote:          q,
		Score:          ActivityScore(q),
		RiskLevel:      risk.Level,
		RiskReason:     risk.Reason,
		TrendDirection: ClassifyTrend(q.ChangePercent),
	}
}

// Rank scores every quote and sorts by score descending.
// The sort is stable so equal scores keep input order. The input is not
// modified and the result is never nil.
func Rank(quotes []contracts.Quote) []contracts.ScoredAsset {
	ranked := make([]contracts.ScoredAsset, 0, len(quotes))
	for _, q := range quotes {
		ranked = append(ranked, Score(q))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Ranker wraps Rank with logging and metrics
// ⭐ SSOT: asset ranking goes through here
type Ranker struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger, m *metrics.Metrics) *Ranker {
	if log == nil {
		log = logger.Nop()
	}
	return &Ranker{logger: log, metrics: m}
}

// Rank ranks quotes and records the outcome
func (r *Ranker) Rank(quotes []contracts.Quote) []contracts.ScoredAsset {
	start := time.Now()
	ranked := Rank(quotes)

	for i := range ranked {
		r.metrics.RecordScore(ranked[i].Score, string(ranked[i].RiskLevel))
	}

	if len(ranked) == 0 {
		r.logger.Warn("Ranking completed with no assets")
		return ranked
	}

	r.logger.WithFields(map[string]interface{}{
		"total_assets": len(ranked),
		"top_symbol":   ranked[0].Symbol,
		"top_score":    ranked[0].Score,
		"duration":     time.Since(start),
	}).Debug("Ranking completed")

	return ranked
}

// Summarize computes the dashboard counters for a ranked snapshot
func Summarize(assets []contracts.ScoredAsset) contracts.MarketSummary {
	summary := contracts.MarketSummary{
		Total:    len(assets),
		ByRegion: make(map[contracts.Region]int),
		ByRisk:   make(map[contracts.RiskLevel]int),
	}

	topScore := 0
	for i := range assets {
		a := &assets[i]
		if a.IsHot() {
			summary.Hot++
		}
		if a.RiskLevel == contracts.RiskVolatile {
			summary.Volatile++
		}
		switch a.TrendDirection {
		case contracts.TrendUp:
			summary.Gainers++
		case contracts.TrendDown:
			summary.Losers++
		}
		if a.Region != "" {
			summary.ByRegion[a.Region]++
		}
		summary.ByRisk[a.RiskLevel]++
		if a.Score > topScore {
			topScore = a.Score
			summary.TopSymbol = a.Symbol
		}
	}

	return summary
}
