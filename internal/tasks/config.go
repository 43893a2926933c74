package tasks

import (
	"time"

	appconfig "github.com/mrlokans/newspaper-importer/internal/config"
)

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Imports rely on
	// this staying 1; more workers only make sense for maintenance queues.
	Workers int

	// MaxRetries is the default maximum retry attempts for failed tasks.
	MaxRetries int

	// RetryDelay is the default backoff duration between retries.
	RetryDelay time.Duration

	// TaskTimeout is the default timeout for task execution. Imports of
	// large backlogs can run long, hence the generous default.
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks.
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks.
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           1,
		MaxRetries:        1,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       60 * time.Minute,
		ReleaseAfter:      90 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// FromAppConfig maps the application's task settings onto a queue Config,
// filling blanks from the defaults.
func FromAppConfig(t appconfig.Tasks) Config {
	cfg := DefaultConfig()
	if t.Workers > 0 {
		cfg.Workers = t.Workers
	}
	if t.MaxRetries > 0 {
		cfg.MaxRetries = t.MaxRetries
	}
	if t.RetryDelay > 0 {
		cfg.RetryDelay = t.RetryDelay
	}
	if t.TaskTimeout > 0 {
		cfg.TaskTimeout = t.TaskTimeout
	}
	if t.ReleaseAfter > 0 {
		cfg.ReleaseAfter = t.ReleaseAfter
	}
	if t.CleanupInterval > 0 {
		cfg.CleanupInterval = t.CleanupInterval
	}
	if t.RetentionDuration > 0 {
		cfg.RetentionDuration = t.RetentionDuration
	}
	return cfg
}
