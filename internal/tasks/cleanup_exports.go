package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/manuscript/internal/logging"
)

const CleanupExportsQueue = "cleanup_exports"

// ArtifactPruner deletes exported artifacts older than a cutoff.
type ArtifactPruner interface {
	PruneArtifacts(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionReader supplies the export retention window in days.
type RetentionReader interface {
	GetExportRetentionDays() int
}

// CleanupExportsTask removes PDFs and site folders past the retention window.
type CleanupExportsTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupExportsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupExportsQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupExportsProcessor creates a processor function for CleanupExportsTask.
func CleanupExportsProcessor(pruner ArtifactPruner, retention RetentionReader, log *logging.Logger) backlite.QueueProcessor[CleanupExportsTask] {
	return func(ctx context.Context, task CleanupExportsTask) error {
		if pruner == nil || retention == nil {
			return fmt.Errorf("export cleanup not configured")
		}

		days := retention.GetExportRetentionDays()
		if days == 0 {
			log.Debug("Export cleanup skipped, retention disabled")
			return nil
		}

		cutoff := time.Now().AddDate(0, 0, -days)
		removed, err := pruner.PruneArtifacts(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("cleanup exports: %w", err)
		}

		log.Info("Cleaned up exports", "removed", removed, "retention_days", days)
		return nil
	}
}

// NewCleanupExportsQueue creates a backlite queue for export cleanup tasks.
func NewCleanupExportsQueue(pruner ArtifactPruner, retention RetentionReader, log *logging.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupExportsProcessor(pruner, retention, log))
}
