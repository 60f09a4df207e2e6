// Package models contains shared data structures used across the application.
package models

import "time"

// CurrentVersion is the only state document version this build understands.
const CurrentVersion = 1

// Run is one tracked goal with its tasks and history.
// This corresponds to the state.json file in the .nanny/ directory.
type Run struct {
	Version     int        `json:"version"`
	ID          string     `json:"id,omitempty"`
	Goal        string     `json:"goal"`
	MaxAttempts int        `json:"maxAttempts"` // Default ceiling for new tasks
	Tasks       []*Task    `json:"tasks"`       // Insertion order
	Log         []LogEntry `json:"log"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Counts is a per-status tally of a run's tasks.
type Counts struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Failed  int `json:"failed"`
	Running int `json:"running"`
	Pending int `json:"pending"`
}

// NewRun creates an empty run with default values.
func NewRun(id, goal string, maxAttempts int, now time.Time) *Run {
	return &Run{
		Version:     CurrentVersion,
		ID:          id,
		Goal:        goal,
		MaxAttempts: maxAttempts,
		Tasks:       []*Task{},
		Log:         []LogEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FindRunning returns the task currently in flight, or nil.
func (r *Run) FindRunning() *Task {
	for _, t := range r.Tasks {
		if t.Status == TaskStatusRunning {
			return t
		}
	}
	return nil
}

// FindNextPending returns the first pending task in insertion order, or nil.
func (r *Run) FindNextPending() *Task {
	for _, t := range r.Tasks {
		if t.Status == TaskStatusPending {
			return t
		}
	}
	return nil
}

// FindByID finds a task by ID.
func (r *Run) FindByID(id int) *Task {
	for _, t := range r.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// NextID returns the next task ID: one past the highest existing ID.
func (r *Run) NextID() int {
	next := 1
	for _, t := range r.Tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Failed returns failed tasks in insertion order.
func (r *Run) Failed() []*Task {
	var failed []*Task
	for _, t := range r.Tasks {
		if t.Status == TaskStatusFailed {
			failed = append(failed, t)
		}
	}
	return failed
}

// LastFailed returns the most recently inserted failed task, or nil.
func (r *Run) LastFailed() *Task {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return failed[len(failed)-1]
}

// Counts tallies tasks by status.
func (r *Run) Counts() Counts {
	c := Counts{Total: len(r.Tasks)}
	for _, t := range r.Tasks {
		switch t.Status {
		case TaskStatusDone:
			c.Done++
		case TaskStatusFailed:
			c.Failed++
		case TaskStatusRunning:
			c.Running++
		case TaskStatusPending:
			c.Pending++
		}
	}
	return c
}

// AllDone returns true if the run has tasks and every one of them is done.
func (c Counts) AllDone() bool {
	return c.Total > 0 && c.Done == c.Total
}
