package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/internal/scoring"
	"github.com/wonny/pulse/internal/universe"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the universe by market activity",
	Long: `Fetches quotes for the tracked universe, scores every asset and
prints them ordered by activity score.

Example:
  go run ./cmd/pulse rank
  go run ./cmd/pulse rank --region Canada --limit 10
  go run ./cmd/pulse rank --symbols AAPL,BTC-USD --json
  go run ./cmd/pulse rank --refresh`,
	RunE: runRank,
}

var (
	rankSymbols   []string
	rankRegion    string
	rankAssetType string
	rankLimit     int
	rankJSON      bool
	rankRefresh   bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	// Flags
	rankCmd.Flags().StringSliceVar(&rankSymbols, "symbols", nil, "explicit symbols instead of the universe")
	rankCmd.Flags().StringVar(&rankRegion, "region", "", "filter by region (US|UK|Canada|Global)")
	rankCmd.Flags().StringVar(&rankAssetType, "type", "", "filter by asset type (Stock|ETF|Crypto|Index|Options)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "show at most N assets (0 = all)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print JSON")
	rankCmd.Flags().BoolVar(&rankRefresh, "refresh", false, "drop cached quotes and fetch fresh ones")
}

func runRank(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(rankSymbols, rankRegion, rankAssetType)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if rankRefresh {
		symbols, err := refreshSymbols(ctx, a.universe, filter)
		if err != nil {
			return fmt.Errorf("rank: %w", err)
		}
		a.cache.Invalidate(ctx, symbols...)
	}

	start := time.Now()
	assets, err := a.service.RankedAssets(ctx, filter)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	if rankLimit > 0 && len(assets) > rankLimit {
		assets = assets[:rankLimit]
	}

	out := cmd.OutOrStdout()
	if rankJSON {
		return PrintJSON(out, assets)
	}

	summary := scoring.Summarize(assets)
	PrintHeader(out, "Market Activity Ranking",
		[2]string{"Universe", a.universeSource},
		[2]string{"Assets", strconv.Itoa(summary.Total)},
		[2]string{"Hot", strconv.Itoa(summary.Hot)},
		[2]string{"Volatile", strconv.Itoa(summary.Volatile)},
	)

	rows := make([][]string, 0, len(assets))
	for _, asset := range assets {
		rows = append(rows, []string{
			asset.Symbol,
			truncate(asset.Name, 24),
			strconv.FormatFloat(asset.Price, 'f', 2, 64),
			formatPercent(asset.ChangePercent),
			formatVolume(asset.Volume),
			strconv.Itoa(asset.Score),
			string(asset.RiskLevel),
			string(asset.TrendDirection),
		})
	}
	PrintTable(out, []string{"SYMBOL", "NAME", "PRICE", "CHANGE", "VOLUME", "SCORE", "RISK", "TREND"}, rows)

	fmt.Fprintln(out)
	PrintSuccess(out, fmt.Sprintf("Ranked %d assets in %.2fs", len(assets), time.Since(start).Seconds()))
	return nil
}

// refreshSymbols lists the symbols whose cached quotes a refresh drops:
// the explicit --symbols, or the whole universe
func refreshSymbols(ctx context.Context, src universe.Source, filter market.Filter) ([]string, error) {
	if len(filter.Symbols) > 0 {
		return filter.Symbols, nil
	}
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	return universe.Symbols(entries), nil
}

// buildFilter validates CLI filter flags the same way the API does
func buildFilter(symbols []string, region, assetType string) (market.Filter, error) {
	var f market.Filter
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			f.Symbols = append(f.Symbols, s)
		}
	}
	if region != "" && !strings.EqualFold(region, "all") {
		f.Region = contracts.ParseRegion(region)
		if f.Region == "" {
			return f, fmt.Errorf("unknown region %q", region)
		}
	}
	if assetType != "" && !strings.EqualFold(assetType, "all") {
		f.AssetType = contracts.ParseAssetType(assetType)
		if f.AssetType == contracts.AssetUnknown && !strings.EqualFold(assetType, string(contracts.AssetUnknown)) {
			return f, fmt.Errorf("unknown asset type %q", assetType)
		}
	}
	return f, nil
}
