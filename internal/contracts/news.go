package contracts

// Sentiment is the directional tone of a headline
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// NewsItem is a provider-neutral headline
type NewsItem struct {
	UUID                string   `json:"uuid" validate:"required"`
	Title               string   `json:"title" validate:"required"`
	Publisher           string   `json:"publisher"`
	Link                string   `json:"link" validate:"omitempty,url"`
	ProviderPublishTime string   `json:"providerPublishTime"` // epoch seconds/millis or RFC3339/RFC1123
	Type                string   `json:"type"`
	Thumbnail           string   `json:"thumbnail,omitempty"`
	RelatedTickers      []string `json:"relatedTickers,omitempty"`
}

// AnalyzedNews is a NewsItem annotated by the news analyzer
type AnalyzedNews struct {
	NewsItem
	Importance int       `json:"importance"` // 1-5
	Sentiment  Sentiment `json:"sentiment"`
	AIInsight  string    `json:"aiInsight"`
}
