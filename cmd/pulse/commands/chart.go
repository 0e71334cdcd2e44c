package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart SYMBOL",
	Short: "Show closing prices for a symbol",
	Long: `Fetches the closing price series for a symbol and prints a summary
with a sparkline.

Example:
  go run ./cmd/pulse chart AAPL
  go run ./cmd/pulse chart BTC-USD --range 1mo`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartRange string
	chartJSON  bool
)

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartRange, "range", "1d", "range (1d|5d|1mo|1y)")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print JSON")
}

func runChart(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	series, err := a.service.Chart(ctx, symbol, chartRange)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if chartJSON {
		return PrintJSON(out, series)
	}

	PrintHeader(out, "Chart: "+series.Symbol,
		[2]string{"Range", series.Range},
		[2]string{"Interval", series.Interval},
		[2]string{"Points", fmt.Sprint(len(series.Prices))},
	)
	if len(series.Prices) == 0 {
		PrintWarning(out, "No prices in range")
		return nil
	}

	last := series.Prices[len(series.Prices)-1]
	fmt.Fprintf(out, "  Prev close: %.2f\n", series.PreviousClose)
	fmt.Fprintf(out, "  Last      : %.2f\n", last)
	if series.PreviousClose > 0 {
		fmt.Fprintf(out, "  Change    : %s\n", formatPercent((last-series.PreviousClose)/series.PreviousClose*100))
	}
	fmt.Fprintf(out, "\n  %s\n", sparkline(series.Prices, 60))
	return nil
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders prices as block characters, sampling down to width points
func sparkline(prices []float64, width int) string {
	if len(prices) == 0 {
		return ""
	}
	if len(prices) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = prices[i*len(prices)/width]
		}
		prices = sampled
	}

	lo, hi := prices[0], prices[0]
	for _, p := range prices {
		lo = min(lo, p)
		hi = max(hi, p)
	}

	var sb strings.Builder
	for _, p := range prices {
		idx := 0
		if hi > lo {
			idx = int((p - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		sb.WriteRune(sparkTicks[idx])
	}
	return sb.String()
}
