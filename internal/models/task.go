package models

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusDone, TaskStatusFailed:
		return true
	}
	return false
}

// Check describes how an external worker verifies a task.
// Nanny stores it but never executes it.
type Check struct {
	Command string `json:"command,omitempty"` // Shell command, e.g. "npm test"
	Agent   string `json:"agent,omitempty"`   // Prompt for an agent scorer
	Target  *int   `json:"target,omitempty"`  // Score threshold (0-100) for agent checks
}

// UnmarshalJSON accepts either a check object or a bare command string.
func (c *Check) UnmarshalJSON(data []byte) error {
	var command string
	if err := json.Unmarshal(data, &command); err == nil {
		*c = Check{Command: command}
		return nil
	}
	type Alias Check
	return json.Unmarshal(data, (*Alias)(c))
}

// IsZero reports whether the check carries no verification at all.
func (c *Check) IsZero() bool {
	return c == nil || (c.Command == "" && c.Agent == "")
}

// Task is a single unit of work within a run.
type Task struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Check       *Check     `json:"check,omitempty"`
	Status      TaskStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"maxAttempts"`
	Summary     string     `json:"summary,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`  // Most recent claim
	FinishedAt  *time.Time `json:"finishedAt,omitempty"` // Most recent done/fail
}

// NewTask creates a pending task with zero attempts.
func NewTask(id int, description string, check *Check, maxAttempts int) *Task {
	return &Task{
		ID:          id,
		Description: description,
		Check:       check,
		Status:      TaskStatusPending,
		Attempts:    0,
		MaxAttempts: maxAttempts,
	}
}

// Start marks the task as claimed by a worker.
func (t *Task) Start(now time.Time) {
	t.Status = TaskStatusRunning
	t.Attempts++
	t.StartedAt = &now
}

// MarkDone marks the task as successfully completed.
func (t *Task) MarkDone(now time.Time, summary string) {
	t.Status = TaskStatusDone
	t.FinishedAt = &now
	if summary != "" {
		t.Summary = summary
	}
}

// MarkFailed records a failed attempt. The task goes back to pending while
// attempts remain and to failed once they are exhausted. It returns true when
// the task is exhausted.
func (t *Task) MarkFailed(now time.Time, errText string) bool {
	exhausted := t.Exhausted()
	t.LastError = errText
	t.FinishedAt = &now
	if exhausted {
		t.Status = TaskStatusFailed
	} else {
		t.Status = TaskStatusPending
	}
	return exhausted
}

// Reset returns a failed task to pending with a fresh attempt budget.
// LastError is kept so the next attempt can see what went wrong.
func (t *Task) Reset() {
	t.Status = TaskStatusPending
	t.Attempts = 0
}

// Exhausted returns true if the task has used all of its attempts.
func (t *Task) Exhausted() bool {
	return t.Attempts >= t.MaxAttempts
}
