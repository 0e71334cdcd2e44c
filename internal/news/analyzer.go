package news

import (
	"strings"
	"unicode/utf8"

	"github.com/wonny/pulse/internal/contracts"
)

// Importance levels. 1 is reserved and never produced.
const (
	ImportanceRoutine  = 2
	ImportanceLong     = 3
	ImportanceCritical = 4
	ImportanceMultiple = 5
)

// longTitleLength is the length in characters above which an otherwise routine headline is notable
const longTitleLength = 80

// Analysis is the annotation of a single headline
type Analysis struct {
	Importance int
	Sentiment  contracts.Sentiment
	Insight    string
}

// Analyze scores a headline's importance and sentiment and picks an insight.
// The result depends only on (title, symbol).
func Analyze(title, symbol string) Analysis {
	lower := strings.ToLower(title)

	importance := importanceOf(countMatches(lower, criticalKeywords), utf8.RuneCountInString(title))
	sentiment := sentimentOf(
		countMatches(lower, bullishKeywords),
		countMatches(lower, bearishKeywords),
	)

	return Analysis{
		Importance: importance,
		Sentiment:  sentiment,
		Insight:    Insight(importance, sentiment, symbol),
	}
}

// countMatches counts keywords contained in s, each at most once
func countMatches(s string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			n++
		}
	}
	return n
}

func importanceOf(critical, titleLen int) int {
	switch {
	case critical > 1:
		return ImportanceMultiple
	case critical == 1:
		return ImportanceCritical
	case titleLen > longTitleLength:
		return ImportanceLong
	default:
		return ImportanceRoutine
	}
}

func sentimentOf(bullish, bearish int) contracts.Sentiment {
	switch {
	case bullish > bearish:
		return contracts.SentimentBullish
	case bearish > bullish:
		return contracts.SentimentBearish
	default:
		return contracts.SentimentNeutral
	}
}
