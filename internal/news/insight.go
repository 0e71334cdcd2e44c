package news

import (
	"fmt"

	"github.com/wonny/pulse/internal/contracts"
)

// insightTemplates are keyed by importance bucket, then sentiment. %s is the symbol.
var insightTemplates = map[int]map[contracts.Sentiment]string{
	ImportanceCritical: {
		contracts.SentimentBullish: "High-impact catalyst for %s: headline signals strong upside pressure. Expect elevated volume and volatility.",
		contracts.SentimentBearish: "Critical risk event for %s: headline points to significant downside pressure. Watch support levels closely.",
		contracts.SentimentNeutral: "Major corporate event for %s: direction unclear, but volatility is likely to rise.",
	},
	ImportanceLong: {
		contracts.SentimentBullish: "Moderately positive coverage for %s; may support near-term sentiment.",
		contracts.SentimentBearish: "Moderately negative coverage for %s; could weigh on near-term sentiment.",
		contracts.SentimentNeutral: "Notable coverage for %s with no clear directional bias.",
	},
}

const routineInsight = "Routine coverage for %s; limited expected price impact."

// Insight renders the insight sentence for an importance/sentiment pair
func Insight(importance int, sentiment contracts.Sentiment, symbol string) string {
	bucket := ImportanceRoutine
	switch {
	case importance >= ImportanceCritical:
		bucket = ImportanceCritical
	case importance == ImportanceLong:
		bucket = ImportanceLong
	}

	tmpl := routineInsight
	if byTone, ok := insightTemplates[bucket]; ok {
		if t, ok := byTone[sentiment]; ok {
			tmpl = t
		} else {
			tmpl = byTone[contracts.SentimentNeutral]
		}
	}
	return fmt.Sprintf(tmpl, symbol)
}
