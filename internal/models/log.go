package models

import "time"

// LogEvent is the kind of lifecycle transition a log entry records.
type LogEvent string

const (
	LogEventStart LogEvent = "start"
	LogEventDone  LogEvent = "done"
	LogEventFail  LogEvent = "fail"
	LogEventRetry LogEvent = "retry"
)

// LogEntry is one line of a run's append-only audit trail.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	TaskID    int       `json:"taskId"`
	Event     LogEvent  `json:"event"`
	Message   string    `json:"message"`
}

// AppendLog records a lifecycle transition. Entries are never edited or removed.
func (r *Run) AppendLog(now time.Time, taskID int, event LogEvent, message string) LogEntry {
	entry := LogEntry{
		Timestamp: now,
		TaskID:    taskID,
		Event:     event,
		Message:   message,
	}
	r.Log = append(r.Log, entry)
	return entry
}

// Tail returns the last n log entries in append order.
// n <= 0 returns the whole log.
func (r *Run) Tail(n int) []LogEntry {
	if n <= 0 || n >= len(r.Log) {
		return r.Log
	}
	return r.Log[len(r.Log)-n:]
}
