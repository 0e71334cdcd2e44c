package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/internal/contracts"
	"github.com/wonny/pulse/internal/market"
	"github.com/wonny/pulse/internal/stream"
)

type stubRefresher struct {
	snap market.Snapshot
	err  error
}

func (s *stubRefresher) Refresh(ctx context.Context) (market.Snapshot, error) {
	return s.snap, s.err
}

type recordingBroadcaster struct {
	types    []string
	payloads []interface{}
	err      error
}

func (b *recordingBroadcaster) Broadcast(msgType string, payload interface{}) error {
	b.types = append(b.types, msgType)
	b.payloads = append(b.payloads, payload)
	return b.err
}

type countingCache struct{ calls int }

func (c *countingCache) CleanExpired() int {
	c.calls++
	return 3
}

func TestRefreshJob(t *testing.T) {
	snap := market.Snapshot{
		Assets:    []contracts.ScoredAsset{{Quote: contracts.Quote{Symbol: "AAPL"}, Score: 7}},
		UpdatedAt: time.Now(),
	}
	b := &recordingBroadcaster{}
	job := NewRefreshJob(&stubRefresher{snap: snap}, b, "0 */1 * * * *", nil)

	assert.Equal(t, "market_refresh", job.Name())
	assert.Equal(t, "0 */1 * * * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{stream.TypeSnapshot}, b.types)
	assert.Equal(t, snap, b.payloads[0])
}

func TestRefreshJob_Errors(t *testing.T) {
	failing := NewRefreshJob(&stubRefresher{err: market.ErrNoQuotes}, nil, "@every 1m", nil)
	err := failing.Run(context.Background())
	assert.True(t, errors.Is(err, market.ErrNoQuotes))

	// broadcast failures are logged only
	b := &recordingBroadcaster{err: errors.New("queue full")}
	job := NewRefreshJob(&stubRefresher{}, b, "@every 1m", nil)
	assert.NoError(t, job.Run(context.Background()))

	noPush := NewRefreshJob(&stubRefresher{}, nil, "@every 1m", nil)
	assert.NoError(t, noPush.Run(context.Background()))
}

func TestCacheCleanupJob(t *testing.T) {
	c := &countingCache{}
	job := NewCacheCleanupJob(c, nil)

	assert.Equal(t, "cache_cleanup", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, c.calls)
}
