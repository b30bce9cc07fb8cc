package worker

import (
	"context"
	"fmt"

	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

// Snapshotter writes a point-in-time copy of the stats database
type Snapshotter interface {
	Snapshot(ctx context.Context) (storage.BackupResult, error)
}

// SnapshotJob takes a timestamped snapshot each time it runs
type SnapshotJob struct {
	store Snapshotter
}

// NewSnapshotJob creates a snapshot job for store
func NewSnapshotJob(store Snapshotter) *SnapshotJob {
	return &SnapshotJob{store: store}
}

// Process implements Job
func (j *SnapshotJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgSnapshotStarting)

	result, err := j.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("scheduled snapshot: %w", err)
	}

	log.Info(LogMsgSnapshotCompleted, "path", result.Path)
	return nil
}
