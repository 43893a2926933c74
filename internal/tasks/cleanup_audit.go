package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupAuditFilesTask removes run summary files older than the configured
// retention period.
type CleanupAuditFilesTask struct {
	AuditDir      string `json:"audit_dir"`
	RetentionDays int    `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditFilesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_files",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuditFilesProcessor creates a processor function for
// CleanupAuditFilesTask.
func CleanupAuditFilesProcessor() backlite.QueueProcessor[CleanupAuditFilesTask] {
	return func(ctx context.Context, task CleanupAuditFilesTask) error {
		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := deleteAuditFilesBefore(task.AuditDir, cutoff)
		if err != nil {
			return fmt.Errorf("cleanup audit files: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d audit files older than %d days", deleted, retentionDays)
		return nil
	}
}

func deleteAuditFilesBefore(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// NewCleanupAuditFilesQueue creates a backlite queue for audit cleanup
// tasks.
func NewCleanupAuditFilesQueue() backlite.Queue {
	return backlite.NewQueue(CleanupAuditFilesProcessor())
}
