package news

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pulse/internal/contracts"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		wantImportance int
		wantSentiment  contracts.Sentiment
	}{
		{
			name:           "two critical keywords, bullish",
			title:          "Company beats earnings expectations, announces buyback",
			wantImportance: 5,
			wantSentiment:  contracts.SentimentBullish,
		},
		{
			name:           "no critical keywords, bearish",
			title:          "Stock drops on investigation news",
			wantImportance: 2,
			wantSentiment:  contracts.SentimentBearish,
		},
		{
			name:           "one critical keyword",
			title:          "FDA approves new treatment",
			wantImportance: 4,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "case insensitive",
			title:          "CEO RESIGNS AFTER LAWSUIT",
			wantImportance: 5,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "long routine headline",
			title:          strings.Repeat("a", 81),
			wantImportance: 3,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "exactly 80 characters stays routine",
			title:          strings.Repeat("a", 80),
			wantImportance: 2,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "multi-byte characters count once each",
			title:          strings.Repeat("é", 50),
			wantImportance: 2,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "curly quotes under 80 characters stay routine",
			title:          "“Quiet” session – " + strings.Repeat("x", 60),
			wantImportance: 2,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "81 multi-byte characters are long",
			title:          strings.Repeat("한", 81),
			wantImportance: 3,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "tie is neutral",
			title:          "Analysts upgraded then downgraded",
			wantImportance: 2,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "empty title",
			title:          "",
			wantImportance: 2,
			wantSentiment:  contracts.SentimentNeutral,
		},
		{
			name:           "keyword counted once",
			title:          "Dividend dividend dividend",
			wantImportance: 4,
			wantSentiment:  contracts.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.title, "AAPL")
			assert.Equal(t, tt.wantImportance, got.Importance)
			assert.Equal(t, tt.wantSentiment, got.Sentiment)
			assert.Contains(t, got.Insight, "AAPL")
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	title := "Chipmaker posts record profit as growth accelerates"
	assert.Equal(t, Analyze(title, "NVDA"), Analyze(title, "NVDA"))
}

func TestInsight(t *testing.T) {
	critical := Insight(5, contracts.SentimentBullish, "TSLA")
	notable := Insight(3, contracts.SentimentBullish, "TSLA")
	routine := Insight(2, contracts.SentimentBullish, "TSLA")

	assert.Contains(t, critical, "High-impact")
	assert.Contains(t, notable, "Moderately positive")
	assert.Equal(t, "Routine coverage for TSLA; limited expected price impact.", routine)

	// every sentiment in a bucket gets its own wording
	assert.NotEqual(t, Insight(4, contracts.SentimentBearish, "X"), Insight(4, contracts.SentimentNeutral, "X"))
	assert.NotEqual(t, Insight(3, contracts.SentimentBearish, "X"), Insight(3, contracts.SentimentBullish, "X"))

	// the routine template ignores sentiment
	assert.Equal(t, Insight(2, contracts.SentimentBearish, "X"), Insight(1, contracts.SentimentNeutral, "X"))

	// 4 and 5 share a bucket
	assert.Equal(t, Insight(4, contracts.SentimentBearish, "X"), Insight(5, contracts.SentimentBearish, "X"))
}
