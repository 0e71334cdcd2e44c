package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/universe"
)

var errNoDatabase = errors.New("DATABASE_URL is not set; the watchlist lives in Postgres")

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Manage the tracked universe",
	Long: `Lists the tracked universe or edits the Postgres watchlist.

The universe is resolved in priority order: database, UNIVERSE_FILE,
SYMBOLS, then the built-in default list.

Example:
  go run ./cmd/pulse universe list
  go run ./cmd/pulse universe seed --file universe.yaml
  go run ./cmd/pulse universe add PLTR --sector Technology
  go run ./cmd/pulse universe remove PLTR`,
}

var universeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked symbols",
	RunE:  runUniverseList,
}

var universeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the watchlist with a file, SYMBOLS or the default list",
	RunE:  runUniverseSeed,
}

var universeAddCmd = &cobra.Command{
	Use:   "add SYMBOL",
	Short: "Add or update a watchlist symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runUniverseAdd,
}

var universeRemoveCmd = &cobra.Command{
	Use:   "remove SYMBOL",
	Short: "Remove a watchlist symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runUniverseRemove,
}

var (
	seedFile  string
	addRegion string
	addType   string
	addSector string
	listJSON  bool
)

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd, universeSeedCmd, universeAddCmd, universeRemoveCmd)

	// Flags
	universeListCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	universeSeedCmd.Flags().StringVar(&seedFile, "file", "", "YAML universe file (default UNIVERSE_FILE)")
	universeAddCmd.Flags().StringVar(&addRegion, "region", "", "region override")
	universeAddCmd.Flags().StringVar(&addType, "type", "", "asset type override")
	universeAddCmd.Flags().StringVar(&addSector, "sector", "", "sector")
}

func runUniverseList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.service.Universe(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		return PrintJSON(out, entries)
	}

	PrintHeader(out, "Universe",
		[2]string{"Source", a.universeSource},
		[2]string{"Symbols", fmt.Sprint(len(entries))},
	)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Symbol, string(e.Region), string(e.AssetType), e.Sector})
	}
	PrintTable(out, []string{"SYMBOL", "REGION", "TYPE", "SECTOR"}, rows)
	return nil
}

func runUniverseSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if a.repo == nil {
		return errNoDatabase
	}

	if seedFile != "" {
		a.cfg.Universe.File = seedFile
	}
	src, source, err := universe.Resolve(a.cfg, nil)
	if err != nil {
		return err
	}
	entries, err := src.Entries(ctx)
	if err != nil {
		return err
	}

	n, err := a.repo.Seed(ctx, entries)
	if err != nil {
		return err
	}
	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Seeded %d symbols from %s", n, source))
	return nil
}

func runUniverseAdd(cmd *cobra.Command, args []string) error {
	entry := universe.Classify(args[0])
	if addRegion != "" {
		entry.Region = contracts.ParseRegion(addRegion)
		if entry.Region == "" {
			return fmt.Errorf("unknown region %q", addRegion)
		}
	}
	if addType != "" {
		entry.AssetType = contracts.ParseAssetType(addType)
	}
	if addSector != "" {
		entry.Sector = addSector
	}

	return withRepo(cmd.Context(), func(ctx context.Context, repo *universe.Repository) error {
		if err := repo.Add(ctx, entry); err != nil {
			return err
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added %s (%s, %s)", entry.Symbol, entry.Region, entry.AssetType))
		return nil
	})
}

func runUniverseRemove(cmd *cobra.Command, args []string) error {
	return withRepo(cmd.Context(), func(ctx context.Context, repo *universe.Repository) error {
		removed, err := repo.Remove(ctx, args[0])
		if err != nil {
			return err
		}
		if !removed {
			PrintWarning(cmd.OutOrStdout(), universe.Normalize(args[0])+" was not in the watchlist")
			return nil
		}
		PrintSuccess(cmd.OutOrStdout(), "Removed "+universe.Normalize(args[0]))
		return nil
	})
}

// withRepo runs fn against the Postgres watchlist
func withRepo(ctx context.Context, fn func(context.Context, *universe.Repository) error) error {
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if a.repo == nil {
		return errNoDatabase
	}
	return fn(ctx, a.repo)
}
