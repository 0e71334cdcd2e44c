package universe

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/pkg/config"
	"github.com/wonny/pulse/pkg/database"
)

func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.EnsureSchema(ctx))

	repo := NewRepository(db.Pool)

	n, err := repo.Seed(ctx, []contracts.UniverseEntry{{Symbol: "AAPL"}, {Symbol: "BTC-USD"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Add(ctx, contracts.UniverseEntry{Symbol: "shop.to"}))

	entries, err := repo.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BTC-USD", "SHOP.TO"}, Symbols(entries))
	assert.Equal(t, contracts.RegionCanada, entries[2].Region)

	removed, err := repo.Remove(ctx, "btc-usd")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.False(t, removed)
}
