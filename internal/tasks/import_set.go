package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SetRunner runs one full import of a named set.
type SetRunner interface {
	RunSet(ctx context.Context, name string) error
}

// ImportSetTask imports one configured set. Scheduled runs and manual
// enqueues share this queue, so its single worker serializes them.
type ImportSetTask struct {
	SetName string `json:"set_name"`
}

// Config returns the queue configuration for import tasks.
func (t ImportSetTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_set",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportSetProcessor creates a processor function for ImportSetTask.
func ImportSetProcessor(runner SetRunner) backlite.QueueProcessor[ImportSetTask] {
	return func(ctx context.Context, task ImportSetTask) error {
		if runner == nil {
			return fmt.Errorf("import runner not configured")
		}

		log.Printf("[TASK] Importing set %s", task.SetName)
		if err := runner.RunSet(ctx, task.SetName); err != nil {
			return fmt.Errorf("import set %s: %w", task.SetName, err)
		}

		return nil
	}
}

// NewImportSetQueue creates a backlite queue for import tasks.
func NewImportSetQueue(runner SetRunner) backlite.Queue {
	return backlite.NewQueue(ImportSetProcessor(runner))
}
