package universe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/pulse/internal/contracts"
)

// Repository stores the tracked universe in pulse.watchlist
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Entries returns the watchlist in display order
func (r *Repository) Entries(ctx context.Context) ([]contracts.UniverseEntry, error) {
	query := `
		SELECT symbol, region, asset_type, sector
		FROM pulse.watchlist
		ORDER BY position, symbol
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.UniverseEntry, error) {
		var e contracts.UniverseEntry
		var region, assetType string
		if err := row.Scan(&e.Symbol, &region, &assetType, &e.Sector); err != nil {
			return e, err
		}
		e.Region = contracts.Region(region)
		e.AssetType = contracts.AssetType(assetType)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan watchlist: %w", err)
	}

	return entries, nil
}

// Add inserts or updates one entry at the end of the list
func (r *Repository) Add(ctx context.Context, entry contracts.UniverseEntry) error {
	entry = complete(entry)

	query := `
		INSERT INTO pulse.watchlist (symbol, region, asset_type, sector, position)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), 0) + 1 FROM pulse.watchlist))
		ON CONFLICT (symbol) DO UPDATE SET
			region = EXCLUDED.region,
			asset_type = EXCLUDED.asset_type,
			sector = EXCLUDED.sector
	`

	if _, err := r.db.Exec(ctx, query, entry.Symbol, string(entry.Region), string(entry.AssetType), entry.Sector); err != nil {
		return fmt.Errorf("insert watchlist %s: %w", entry.Symbol, err)
	}
	return nil
}

// Remove deletes a symbol; it reports whether a row existed
func (r *Repository) Remove(ctx context.Context, symbol string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM pulse.watchlist WHERE symbol = $1`, Normalize(symbol))
	if err != nil {
		return false, fmt.Errorf("delete watchlist %s: %w", symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Seed replaces the watchlist with entries in a single transaction
func (r *Repository) Seed(ctx context.Context, entries []contracts.UniverseEntry) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM pulse.watchlist`); err != nil {
		return 0, fmt.Errorf("clear watchlist: %w", err)
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		e = complete(e)
		batch.Queue(
			`INSERT INTO pulse.watchlist (symbol, region, asset_type, sector, position) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (symbol) DO NOTHING`,
			e.Symbol, string(e.Region), string(e.AssetType), e.Sector, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert watchlist batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(entries), nil
}
