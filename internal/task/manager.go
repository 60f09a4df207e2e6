// Package task implements the task lifecycle: claim, complete, fail, retry and add.
//
// Every operation mutates the run it is given in memory and appends to its
// event log. Persisting the result is the caller's job (see state.Store.Update).
// Operations validate before mutating, so an error leaves the run unchanged.
package task

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/watchfire-io/nanny/internal/models"
)

// maxLogErrorRunes bounds the error text copied into a fail log entry.
// The task's LastError keeps the full text.
const maxLogErrorRunes = 200

// Manager handles task lifecycle operations.
type Manager struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transition records.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new task manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailResult describes the outcome of ReportFailure.
type FailResult struct {
	Task      *models.Task
	Exhausted bool // true when the task moved to failed rather than back to pending
}

// Claim starts the next pending task in insertion order.
//
// If a task is already running it is returned with ErrAlreadyRunning and the
// run is not modified. With nothing pending, Claim returns ErrEmpty, ErrStuck
// or ErrAllDone.
func (m *Manager) Claim(run *models.Run) (*models.Task, error) {
	if running := run.FindRunning(); running != nil {
		return running, ErrAlreadyRunning
	}

	t := run.FindNextPending()
	if t == nil {
		counts := run.Counts()
		switch {
		case counts.Total == 0:
			return nil, ErrEmpty
		case counts.Failed > 0:
			return nil, ErrStuck
		default:
			return nil, ErrAllDone
		}
	}

	now := m.now()
	t.Start(now)
	run.AppendLog(now, t.ID, models.LogEventStart,
		fmt.Sprintf("Attempt %d/%d: %s", t.Attempts, t.MaxAttempts, t.Description))

	m.logger.Debug("Claimed task", slog.Int("task_id", t.ID), slog.Int("attempt", t.Attempts), slog.Int("max_attempts", t.MaxAttempts))
	return t, nil
}

// Complete marks the running task as done.
func (m *Manager) Complete(run *models.Run, summary string) (*models.Task, error) {
	t := run.FindRunning()
	if t == nil {
		return nil, ErrNoRunningTask
	}

	now := m.now()
	t.MarkDone(now, summary)

	message := summary
	if message == "" {
		message = fmt.Sprintf("Task %d completed", t.ID)
	}
	run.AppendLog(now, t.ID, models.LogEventDone, message)

	m.logger.Debug("Completed task", slog.Int("task_id", t.ID), slog.Int("attempts", t.Attempts))
	return t, nil
}

// ReportFailure records a failed attempt of the running task. The task goes
// back to pending while attempts remain (keeping its attempt count) and to
// failed once they are exhausted.
func (m *Manager) ReportFailure(run *models.Run, errText string) (*FailResult, error) {
	t := run.FindRunning()
	if t == nil {
		return nil, ErrNoRunningTask
	}

	now := m.now()
	exhausted := t.MarkFailed(now, errText)
	run.AppendLog(now, t.ID, models.LogEventFail,
		fmt.Sprintf("Attempt %d/%d: %s", t.Attempts, t.MaxAttempts, truncateRunes(errText, maxLogErrorRunes)))

	m.logger.Debug("Task attempt failed",
		slog.Int("task_id", t.ID),
		slog.Int("attempt", t.Attempts),
		slog.Int("max_attempts", t.MaxAttempts),
		slog.Bool("exhausted", exhausted))
	return &FailResult{Task: t, Exhausted: exhausted}, nil
}

// Retry resets the failed task with the given ID to pending with zero attempts.
func (m *Manager) Retry(run *models.Run, id int) (*models.Task, error) {
	t := run.FindByID(id)
	if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if t.Status != models.TaskStatusFailed {
		return t, fmt.Errorf("%w: task %d is %s", ErrNotFailed, t.ID, t.Status)
	}
	return m.reset(run, t), nil
}

// RetryLast resets the most recently inserted failed task.
func (m *Manager) RetryLast(run *models.Run) (*models.Task, error) {
	t := run.LastFailed()
	if t == nil {
		return nil, ErrNoFailedTasks
	}
	return m.reset(run, t), nil
}

func (m *Manager) reset(run *models.Run, t *models.Task) *models.Task {
	t.Reset()
	run.AppendLog(m.now(), t.ID, models.LogEventRetry, "Reset to pending for retry")

	m.logger.Debug("Reset task for retry", slog.Int("task_id", t.ID))
	return t
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
