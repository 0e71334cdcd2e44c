package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/external"
	"github.com/wonny/pulse/internal/news"
	"github.com/wonny/pulse/internal/scoring"
	"github.com/wonny/pulse/internal/universe"
	"github.com/wonny/pulse/pkg/logger"
)

// Filter narrows a ranking request. Zero values match everything.
type Filter struct {
	Symbols   []string
	Region    contracts.Region
	AssetType contracts.AssetType
}

// IsZero reports whether the filter selects the whole universe
func (f Filter) IsZero() bool {
	return len(f.Symbols) == 0 && f.Region == "" && f.AssetType == ""
}

// Snapshot is the latest full-universe ranking
type Snapshot struct {
	Assets    []contracts.ScoredAsset `json:"assets"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Service fetches, validates and ranks market data for the API, CLI and scheduler
// ⭐ SSOT: provider data reaches the scoring engine through this service only
type Service struct {
	universe  universe.Source
	providers Providers
	ranker    *scoring.Ranker
	logger    *logger.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewService creates a market service
func NewService(src universe.Source, providers Providers, ranker *scoring.Ranker, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if ranker == nil {
		ranker = scoring.NewRanker(log, nil)
	}
	return &Service{
		universe:  src,
		providers: providers,
		ranker:    ranker,
		logger:    log.WithField("component", "market"),
	}
}

// Universe returns the tracked entries
func (s *Service) Universe(ctx context.Context) ([]contracts.UniverseEntry, error) {
	return s.universe.Entries(ctx)
}

// RankedAssets fetches the selected symbols and returns them ranked by activity.
// Unfiltered results also become the latest snapshot.
func (s *Service) RankedAssets(ctx context.Context, f Filter) ([]contracts.ScoredAsset, error) {
	entries, err := s.selectEntries(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []contracts.ScoredAsset{}, nil
	}

	quotes, err := s.fetchQuotes(ctx, entries)
	if err != nil {
		return nil, err
	}

	ranked := s.ranker.Rank(quotes)
	if f.IsZero() {
		s.mu.Lock()
		s.snapshot = Snapshot{Assets: ranked, UpdatedAt: time.Now()}
		s.mu.Unlock()
	}
	return ranked, nil
}

// Refresh re-ranks the whole universe and returns the new snapshot
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	if _, err := s.RankedAssets(ctx, Filter{}); err != nil {
		return Snapshot{}, err
	}
	return s.Latest(), nil
}

// Latest returns the last full-universe ranking (zero before the first refresh)
func (s *Service) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Summary computes the dashboard counters over the whole universe
func (s *Service) Summary(ctx context.Context) (contracts.MarketSummary, error) {
	assets, err := s.RankedAssets(ctx, Filter{})
	if err != nil {
		return contracts.MarketSummary{}, err
	}
	return scoring.Summarize(assets), nil
}

// Asset scores a single symbol, tracked or not
func (s *Service) Asset(ctx context.Context, symbol string) (*contracts.ScoredAsset, error) {
	entry, _, err := universe.Lookup(ctx, s.universe, symbol)
	if err != nil {
		return nil, err
	}
	if entry.Symbol == "" {
		return nil, ErrNotFound
	}

	quotes, err := s.fetchQuotes(ctx, []contracts.UniverseEntry{entry})
	if err != nil {
		// the provider answered but had nothing for the symbol
		if errors.Is(err, external.ErrNoData) {
			return nil, fmt.Errorf("%s: %w", entry.Symbol, ErrNotFound)
		}
		return nil, fmt.Errorf("asset %s: %w", entry.Symbol, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%s: %w", entry.Symbol, ErrNotFound)
	}

	asset := scoring.Score(quotes[0])
	return &asset, nil
}

// News returns analyzed, ranked headlines. Provider failures yield an empty list.
func (s *Service) News(ctx context.Context, symbol string) []contracts.AnalyzedNews {
	symbol = universe.Normalize(symbol)
	log := s.logger.WithSymbol(symbol)

	items, err := s.providers.News.News(ctx, symbol)
	if err != nil {
		log.WithError(err).Warn("news fetch failed")
		return []contracts.AnalyzedNews{}
	}

	return news.AnalyzeAndRank(validNews(log, items), symbol)
}

// Chart returns closing prices for symbol over rng
func (s *Service) Chart(ctx context.Context, symbol, rng string) (*contracts.ChartSeries, error) {
	symbol = universe.Normalize(symbol)
	if symbol == "" {
		return nil, ErrNotFound
	}

	series, err := s.providers.Chart.Chart(ctx, symbol, rng)
	if err != nil {
		return nil, fmt.Errorf("chart %s %s: %w", symbol, rng, err)
	}
	return series, nil
}

// Search looks up symbols by free text
func (s *Service) Search(ctx context.Context, query string) ([]contracts.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	suggestions, err := s.providers.Search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if suggestions == nil {
		suggestions = []contracts.Suggestion{}
	}
	return suggestions, nil
}

// selectEntries applies the filter to the universe. Explicit symbols need not be tracked.
func (s *Service) selectEntries(ctx context.Context, f Filter) ([]contracts.UniverseEntry, error) {
	entries, err := s.universe.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	if len(f.Symbols) > 0 {
		tracked := universe.Index(entries)
		selected := make([]contracts.UniverseEntry, 0, len(f.Symbols))
		seen := make(map[string]bool, len(f.Symbols))
		for _, sym := range f.Symbols {
			sym = universe.Normalize(sym)
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			if e, ok := tracked[sym]; ok {
				selected = append(selected, e)
			} else {
				selected = append(selected, universe.Classify(sym))
			}
		}
		entries = selected
	}

	return universe.Filter(entries, f.Region, f.AssetType), nil
}

// fetchQuotes routes crypto and non-crypto symbols to their providers concurrently,
// then merges the valid quotes in universe order tagged with universe metadata
func (s *Service) fetchQuotes(ctx context.Context, entries []contracts.UniverseEntry) ([]contracts.Quote, error) {
	var stocks, crypto []string
	for _, e := range entries {
		if e.AssetType == contracts.AssetCrypto {
			crypto = append(crypto, e.Symbol)
		} else {
			stocks = append(stocks, e.Symbol)
		}
	}

	type result struct {
		quotes []contracts.Quote
		err    error
	}
	var stockRes, cryptoRes result

	g, gctx := errgroup.WithContext(ctx)
	if len(stocks) > 0 {
		g.Go(func() error {
			stockRes.quotes, stockRes.err = s.providers.Quotes.Quotes(gctx, stocks)
			return nil
		})
	}
	if len(crypto) > 0 {
		g.Go(func() error {
			cryptoRes.quotes, cryptoRes.err = s.providers.Crypto.Quotes(gctx, crypto)
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, r := range []result{stockRes, cryptoRes} {
		if r.err != nil {
			s.logger.WithError(r.err).Warn("quote fetch failed")
			failures = append(failures, r.err)
		}
	}

	byS := make(map[string]contracts.Quote, len(entries))
	for _, q := range validQuotes(s.logger, append(stockRes.quotes, cryptoRes.quotes...)) {
		byS[q.Symbol] = q
	}

	if len(byS) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoQuotes, errors.Join(failures...))
	}

	merged := make([]contracts.Quote, 0, len(byS))
	for _, e := range entries {
		q, ok := byS[e.Symbol]
		if !ok {
			continue
		}
		q.Region = e.Region
		q.Sector = e.Sector
		if q.AssetType == contracts.AssetUnknown {
			q.AssetType = e.AssetType
		}
		merged = append(merged, q)
	}

	if missing := len(entries) - len(merged); missing > 0 {
		s.logger.WithFields(map[string]interface{}{
			"requested": len(entries),
			"missing":   missing,
		}).Debug("some symbols returned no quote")
	}
	return merged, nil
}
