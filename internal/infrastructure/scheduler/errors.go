package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the bounded queue has no room
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownJobType is returned for jobs without a registered executor
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrInvalidJob is returned when a job lacks the identifiers its executor needs
	ErrInvalidJob = errors.New("invalid job")
)
