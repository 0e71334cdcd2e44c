package scoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/metrics"
)

func symbols(assets []contracts.ScoredAsset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Symbol
	}
	return out
}

func TestScore(t *testing.T) {
	q := contracts.Quote{
		Symbol:        "TSLA",
		AssetType:     contracts.AssetStock,
		Price:         250,
		ChangePercent: -6.2,
		Volume:        3_000_000,
		AvgVolume:     1_000_000,
	}

	got := Score(q)
	assert.Equal(t, q, got.Quote)
	assert.Equal(t, 9, got.Score) // 5 + 2 (price) + 2 (volume)
	assert.Equal(t, contracts.RiskHigh, got.RiskLevel)
	assert.Equal(t, ReasonSignificant, got.RiskReason)
	assert.Equal(t, contracts.TrendDown, got.TrendDirection)
}

func TestRank_StableDescending(t *testing.T) {
	quotes := []contracts.Quote{
		stock(0, 1, 1),   // 5
		stock(6, 1, 1),   // 7
		stock(0.5, 1, 1), // 5
		stock(7, 1, 1),   // 7
		stock(12, 1, 1),  // 8
	}
	for i, s := range []string{"A", "B", "C", "D", "E"} {
		quotes[i].Symbol = s
	}

	ranked := Rank(quotes)

	assert.Equal(t, []string{"E", "B", "D", "A", "C"}, symbols(ranked))
	assert.Equal(t, "A", quotes[0].Symbol, "input must not be reordered")
}

func TestRank_Empty(t *testing.T) {
	got := Rank(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Rank([]contracts.Quote{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Idempotent(t *testing.T) {
	quotes := []contracts.Quote{stock(3, 2000, 1000), stock(-11, 100, 1000), stock(0, 1, 1)}
	assert.Equal(t, Rank(quotes), Rank(quotes))
}

func TestRanker_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := NewRanker(nil, m)

	ranked := r.Rank([]contracts.Quote{stock(12, 1, 1), stock(0, 1, 1)})
	require.Len(t, ranked, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RiskLevels.WithLabelValues("VOLATILE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RiskLevels.WithLabelValues("LOW")))
	assert.Empty(t, r.Rank(nil))
}

func TestSummarize(t *testing.T) {
	assets := []contracts.ScoredAsset{
		{Quote: contracts.Quote{Symbol: "NVDA", Region: contracts.RegionUS}, Score: 9, RiskLevel: contracts.RiskVolatile, TrendDirection: contracts.TrendUp},
		{Quote: contracts.Quote{Symbol: "SHOP.TO", Region: contracts.RegionCanada}, Score: 7, RiskLevel: contracts.RiskHigh, TrendDirection: contracts.TrendDown},
		{Quote: contracts.Quote{Symbol: "BP.L", Region: contracts.RegionUK}, Score: 5, RiskLevel: contracts.RiskLow, TrendDirection: contracts.TrendFlat},
		{Quote: contracts.Quote{Symbol: "AAPL", Region: contracts.RegionUS}, Score: 6, RiskLevel: contracts.RiskLow, TrendDirection: contracts.TrendUp},
	}

	got := Summarize(assets)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.Hot)
	assert.Equal(t, 1, got.Volatile)
	assert.Equal(t, 2, got.Gainers)
	assert.Equal(t, 1, got.Losers)
	assert.Equal(t, 2, got.ByRegion[contracts.RegionUS])
	assert.Equal(t, 2, got.ByRisk[contracts.RiskLow])
	assert.Equal(t, "NVDA", got.TopSymbol)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.ByRegion)
}
