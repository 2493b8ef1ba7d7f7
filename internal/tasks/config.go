package tasks

import "time"

// Config controls the queue worker pool and the task lifecycle. The running
// service fills it from the TASKS_* environment settings in internal/config;
// DefaultConfig mirrors those defaults for callers without an environment,
// such as tests.
type Config struct {
	// Concurrent workers draining the queue.
	Workers int

	// Retry policy applied when a queue does not define its own.
	MaxRetries int
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution.
	TaskTimeout time.Duration

	// ReleaseAfter is how long a claimed task may sit unfinished (e.g. after
	// a worker crash) before it is handed back to the queue.
	ReleaseAfter time.Duration

	// Housekeeping of completed tasks.
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

// DefaultConfig returns the same values internal/config falls back to when
// no TASKS_* environment variables are set.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
