package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Look up symbols by name",
	Long: `Queries the configured search provider for matching symbols.

Example:
  go run ./cmd/pulse search apple
  go run ./cmd/pulse search "royal bank"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchJSON bool

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	suggestions, err := a.service.Search(ctx, query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		return PrintJSON(out, suggestions)
	}

	PrintHeader(out, "Search: "+query, [2]string{"Provider", a.cfg.Providers.Search})
	if len(suggestions) == 0 {
		PrintWarning(out, "No matches")
		return nil
	}

	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{s.Symbol, truncate(s.Name, 32), s.Type, s.Exchange})
	}
	PrintTable(out, []string{"SYMBOL", "NAME", "TYPE", "EXCHANGE"}, rows)
	return nil
}
