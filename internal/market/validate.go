package market

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/logger"
)

// validate is shared; validator caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// sanitizeQuote zeroes non-finite numbers, clears non-finite optional fields
// and strips markup from the display name
func sanitizeQuote(q contracts.Quote) contracts.Quote {
	q.Price = finite(q.Price)
	q.Change = finite(q.Change)
	q.ChangePercent = finite(q.ChangePercent)
	q.Volume = finite(q.Volume)
	q.AvgVolume = finite(q.AvgVolume)

	for _, p := range []**float64{
		&q.FiftyTwoWeekHigh, &q.FiftyTwoWeekLow, &q.MarketCap, &q.TrailingPE,
		&q.DayHigh, &q.DayLow, &q.DividendYield, &q.EPS, &q.Beta,
	} {
		if *p != nil && !isFinite(**p) {
			*p = nil
		}
	}

	q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
	q.Name = cleanText(q.Name)
	if q.AssetType == "" {
		q.AssetType = contracts.AssetUnknown
	}
	return q
}

// sanitizeNews cleans the headline and assigns a stable id when the provider gave none
func sanitizeNews(item contracts.NewsItem) contracts.NewsItem {
	item.Title = cleanText(item.Title)
	item.Publisher = cleanText(item.Publisher)
	item.Link = strings.TrimSpace(item.Link)
	if item.UUID == "" {
		item.UUID = NewsID(item.Link, item.Title)
	}
	return item
}

// NewsID derives a deterministic id from the link, or the title when there is no link
func NewsID(link, title string) string {
	name := link
	if name == "" {
		name = title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// cleanText decodes entities, drops tags and collapses whitespace
func cleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// validQuotes sanitizes quotes and drops the ones failing validation
func validQuotes(log *logger.Logger, quotes []contracts.Quote) []contracts.Quote {
	out := make([]contracts.Quote, 0, len(quotes))
	for _, q := range quotes {
		q = sanitizeQuote(q)
		if err := validate.Struct(q); err != nil {
			log.WithError(err).WithSymbol(q.Symbol).Warn("dropping invalid quote")
			continue
		}
		out = append(out, q)
	}
	return out
}

// validNews sanitizes headlines and drops the ones failing validation
func validNews(log *logger.Logger, items []contracts.NewsItem) []contracts.NewsItem {
	out := make([]contracts.NewsItem, 0, len(items))
	for _, item := range items {
		item = sanitizeNews(item)
		if err := validate.Struct(item); err != nil {
			log.WithError(err).WithField("link", item.Link).Debug("dropping invalid news item")
			continue
		}
		out = append(out, item)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finite(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
