package news

import (
	"sort"

	"github.com/wonny/pulse/internal/contracts"
)

type rankedItem struct {
	news      contracts.AnalyzedNews
	published int64
}

// AnalyzeAndRank annotates every item and orders by importance, then newest first.
// The sort is stable; the input is not modified and the result is never nil.
func AnalyzeAndRank(items []contracts.NewsItem, symbol string) []contracts.AnalyzedNews {
	work := make([]rankedItem, 0, len(items))
	for _, item := range items {
		a := Analyze(item.Title, symbol)
		work = append(work, rankedItem{
			news: contracts.AnalyzedNews{
				NewsItem:   item,
				Importance: a.Importance,
				Sentiment:  a.Sentiment,
				AIInsight:  a.Insight,
			},
			published: PublishTime(item.ProviderPublishTime),
		})
	}

	sort.SliceStable(work, func(i, j int) bool {
		if work[i].news.Importance != work[j].news.Importance {
			return work[i].news.Importance > work[j].news.Importance
		}
		return work[i].published > work[j].published
	})

	ranked := make([]contracts.AnalyzedNews, len(work))
	for i := range work {
		ranked[i] = work[i].news
	}
	return ranked
}
