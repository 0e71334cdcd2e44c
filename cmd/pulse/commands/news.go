package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news SYMBOL",
	Short: "Show analyzed headlines for a symbol",
	Long: `Fetches headlines from the configured news provider and prints them
ordered by importance, with sentiment and a one-line insight.

Example:
  go run ./cmd/pulse news AAPL
  go run ./cmd/pulse news SHOP.TO --json`,
	Args: cobra.ExactArgs(1),
	RunE: runNews,
}

var newsJSON bool

func init() {
	rootCmd.AddCommand(newsCmd)

	newsCmd.Flags().BoolVar(&newsJSON, "json", false, "print JSON")
}

func runNews(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	items := a.service.News(ctx, symbol)

	out := cmd.OutOrStdout()
	if newsJSON {
		return PrintJSON(out, items)
	}

	PrintHeader(out, "News: "+symbol, [2]string{"Provider", a.cfg.Providers.News})
	if len(items) == 0 {
		PrintWarning(out, "No headlines available")
		return nil
	}

	for i, item := range items {
		fmt.Fprintf(out, "%2d. [%s %s] %s\n", i+1, strings.Repeat("★", item.Importance), item.Sentiment, item.Title)
		fmt.Fprintf(out, "    %s | %s\n", item.Publisher, item.AIInsight)
		if item.Link != "" {
			fmt.Fprintf(out, "    %s\n", item.Link)
		}
	}

	fmt.Fprintln(out)
	PrintSuccess(out, strconv.Itoa(len(items))+" headlines")
	return nil
}
