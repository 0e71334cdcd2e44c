package news

// Keyword sets matched as lower-case substrings of a headline.
// Substring matching is intentional: "beats" matches "beat", "buyback" also
// matches "buy".
var (
	criticalKeywords = []string{
		"earnings", "buyback", "acquisition", "merged", "lawsuit", "sec",
		"fda", "bankruptcy", "ceo", "resigns", "dividend",
	}

	bullishKeywords = []string{
		"beat", "exceeds", "upgraded", "outperform", "buy", "growth", "profit",
		"expansion", "partnership", "bullish", "up", "gain", "surge",
	}

	bearishKeywords = []string{
		"miss", "below", "downgraded", "underperform", "sell", "loss", "slump",
		"decline", "investigation", "bearish", "down", "fall", "drop",
	}
)
