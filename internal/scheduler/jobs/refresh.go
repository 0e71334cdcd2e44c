package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/internal/scoring"
	"github.com/wonny/pulse/internal/stream"
	"github.com/wonny/pulse/pkg/logger"
)

// Refresher re-ranks the universe
type Refresher interface {
	Refresh(ctx context.Context) (market.Snapshot, error)
}

// Broadcaster pushes messages to live clients
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// RefreshJob re-ranks the universe, warming the cache, and pushes the snapshot
type RefreshJob struct {
	market      Refresher
	broadcaster Broadcaster
	schedule    string
	logger      *logger.Logger
}

// NewRefreshJob creates a new refresh job. broadcaster may be nil.
func NewRefreshJob(m Refresher, b Broadcaster, schedule string, log *logger.Logger) *RefreshJob {
	if log == nil {
		log = logger.Nop()
	}
	return &RefreshJob{
		market:      m,
		broadcaster: b,
		schedule:    schedule,
		logger:      log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "market_refresh"
}

// Schedule returns the cron schedule
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes the refresh
func (j *RefreshJob) Run(ctx context.Context) error {
	snap, err := j.market.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh market: %w", err)
	}

	summary := scoring.Summarize(snap.Assets)
	j.logger.WithFields(map[string]interface{}{
		"assets":   summary.Total,
		"hot":      summary.Hot,
		"volatile": summary.Volatile,
		"top":      summary.TopSymbol,
	}).Info("Market refreshed")

	if j.broadcaster == nil {
		return nil
	}
	if err := j.broadcaster.Broadcast(stream.TypeSnapshot, snap); err != nil {
		// push failures never fail the refresh
		j.logger.WithError(err).Warn("snapshot broadcast failed")
	}
	return nil
}
