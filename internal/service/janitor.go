package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SnapshotJanitor purges session snapshots abandoned long enough ago
// that nobody will resume them. A snapshot of a live session is always
// fresher than the TTL because of write-through ticks.
type SnapshotJanitor struct {
	snapshots StaleSnapshotStore
	maxAge    time.Duration
	logger    *zap.Logger
}

// NewSnapshotJanitor creates a janitor with the given retention age.
func NewSnapshotJanitor(snapshots StaleSnapshotStore, maxAge time.Duration, logger *zap.Logger) *SnapshotJanitor {
	return &SnapshotJanitor{
		snapshots: snapshots,
		maxAge:    maxAge,
		logger:    logger,
	}
}

// Start begins the hourly cleanup loop and blocks until ctx ends.
func (j *SnapshotJanitor) Start(ctx context.Context) {
	j.logger.Info("snapshot janitor started", zap.Duration("max_age", j.maxAge))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("0 * * * *", func() {
		purged, err := j.snapshots.DeleteStale(ctx, j.maxAge)
		if err != nil {
			j.logger.Error("failed to purge stale snapshots", zap.Error(err))
			return
		}
		if purged > 0 {
			j.logger.Info("stale snapshots purged", zap.Int64("count", purged))
		}
	})
	if err != nil {
		j.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	j.logger.Info("snapshot janitor stopped")
}
