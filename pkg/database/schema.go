package database

import (
	"context"
	"fmt"
)

// schema is applied idempotently on startup when a database is configured
var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS pulse`,
	`CREATE TABLE IF NOT EXISTS pulse.watchlist (
		symbol     TEXT PRIMARY KEY,
		region     TEXT NOT NULL DEFAULT 'US',
		asset_type TEXT NOT NULL DEFAULT 'Stock',
		sector     TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS watchlist_position_idx ON pulse.watchlist (position, symbol)`,
}

// EnsureSchema creates the tables this service owns
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
