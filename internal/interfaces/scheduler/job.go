package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
// Different job types plug in here (sweeps, notification batches).
type Job interface {
	// Execute runs the job with the given context.
	// Context should be respected for cancellation and timeouts.
	Execute(ctx context.Context) error

	// Name returns a short stable identifier used for logging and metrics.
	Name() string

	// Description returns a human-readable description of the job.
	Description() string
}
