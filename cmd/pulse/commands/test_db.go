package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/internal/universe"
	"github.com/wonny/pulse/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test the PostgreSQL connection",
	Long: `Tests the database connection and shows pool statistics.

This command:
- loads DATABASE_URL from config
- opens a connection pool
- runs a ping and a health check
- makes sure the pulse schema exists
- shows the watchlist size and pool statistics

Example:
  go run ./cmd/pulse test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Pulse Database Connection Test ===")

	// Load configuration
	fmt.Fprintln(out, "Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("❌ %w", errNoDatabase)
	}
	fmt.Fprintf(out, "✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Fprintf(out, "   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	// Create database connection
	fmt.Fprintln(out, "Connecting to database...")
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Fprintln(out, "✅ Database connection established")

	// Get health status
	fmt.Fprintln(out, "Getting health status...")
	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Fprintln(out, "✅ Health Check Results:")
	fmt.Fprintf(out, "   Healthy: %v\n", status.Healthy)
	fmt.Fprintf(out, "   Response Time: %v\n", status.ResponseTime)
	fmt.Fprintf(out, "   Timestamp: %v\n\n", status.Timestamp.Format(time.RFC3339))

	// Schema + watchlist
	fmt.Fprintln(out, "Ensuring schema...")
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("❌ Schema setup failed: %w", err)
	}
	entries, err := universe.NewRepository(db.Pool).Entries(ctx)
	if err != nil {
		return fmt.Errorf("❌ Watchlist query failed: %w", err)
	}
	fmt.Fprintf(out, "✅ Watchlist: %d symbols\n\n", len(entries))

	// Pool statistics
	fmt.Fprintln(out, "📊 Connection Pool Statistics:")
	fmt.Fprintf(out, "   Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Fprintf(out, "   Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Fprintf(out, "   Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Fprintf(out, "   Idle Connections: %d\n", status.Stats.IdleConns)
	fmt.Fprintf(out, "   Acquire Count: %d\n", status.Stats.AcquireCount)

	fmt.Fprintln(out, "\n✅ All tests passed!")
	return nil
}

// maskPassword masks the password in the database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
