package task

import "errors"

var (
	// ErrNotFound is returned when a task ID does not exist in the run.
	ErrNotFound = errors.New("task not found")

	// ErrNoRunningTask is returned by Complete and ReportFailure when nothing is in flight.
	ErrNoRunningTask = errors.New("no task is currently running")

	// ErrAlreadyRunning is returned by Claim together with the running task.
	// It signals a resume, not a failure.
	ErrAlreadyRunning = errors.New("a task is already running")

	// ErrAllDone is returned by Claim when every task is done.
	ErrAllDone = errors.New("all tasks are done")

	// ErrStuck is returned by Claim when nothing is pending but tasks have failed.
	ErrStuck = errors.New("no pending tasks and at least one task failed")

	// ErrEmpty is returned by Claim when the run has no tasks.
	ErrEmpty = errors.New("run has no tasks")

	// ErrNoFailedTasks is returned by Retry without an ID when no task has failed.
	ErrNoFailedTasks = errors.New("no failed tasks to retry")

	// ErrNotFailed is returned by Retry when the target task is not failed.
	ErrNotFailed = errors.New("task is not failed")

	// ErrInvalidInput is returned for malformed task definitions and bulk payloads.
	ErrInvalidInput = errors.New("invalid input")
)
