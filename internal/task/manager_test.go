package task

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/nanny/internal/models"
)

var testNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestManager() *Manager {
	return NewManager(WithClock(func() time.Time { return testNow }))
}

func newTestRun(t *testing.T, m *Manager, maxAttempts int, descriptions ...string) *models.Run {
	t.Helper()
	run := models.NewRun("run-1", "goal", maxAttempts, testNow)
	for _, d := range descriptions {
		_, err := m.Add(run, CreateOptions{Description: d})
		require.NoError(t, err)
	}
	return run
}

func lastLog(run *models.Run) models.LogEntry {
	return run.Log[len(run.Log)-1]
}

func TestClaimFIFO(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "first", "second", "third")

	var order []int
	for i := 0; i < 3; i++ {
		claimed, err := m.Claim(run)
		require.NoError(t, err)
		order = append(order, claimed.ID)
		_, err = m.Complete(run, "")
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, order)

	_, err := m.Claim(run)
	assert.ErrorIs(t, err, ErrAllDone)
}

func TestClaimRecordsAttempt(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "write the handler")

	claimed, err := m.Claim(run)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRunning, claimed.Status)
	assert.Equal(t, 1, claimed.Attempts)
	require.NotNil(t, claimed.StartedAt)
	assert.Equal(t, testNow, *claimed.StartedAt)

	entry := lastLog(run)
	assert.Equal(t, models.LogEventStart, entry.Event)
	assert.Equal(t, 1, entry.TaskID)
	assert.Equal(t, "Attempt 1/3: write the handler", entry.Message)
	assert.Equal(t, testNow, entry.Timestamp)
}

func TestClaimResumesRunningTask(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "a", "b")

	first, err := m.Claim(run)
	require.NoError(t, err)
	logLen := len(run.Log)

	again, err := m.Claim(run)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, again.Attempts)
	assert.Len(t, run.Log, logLen)
	assert.Equal(t, 1, run.Counts().Running)
}

func TestClaimWithNothingPending(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.TaskStatus
		wantErr  error
	}{
		{name: "empty run", statuses: nil, wantErr: ErrEmpty},
		{name: "all done", statuses: []models.TaskStatus{models.TaskStatusDone, models.TaskStatusDone}, wantErr: ErrAllDone},
		{name: "stuck", statuses: []models.TaskStatus{models.TaskStatusDone, models.TaskStatusFailed}, wantErr: ErrStuck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			run := models.NewRun("run-1", "goal", 3, testNow)
			for i, s := range tt.statuses {
				tk := models.NewTask(i+1, "task", nil, 3)
				tk.Status = s
				run.Tasks = append(run.Tasks, tk)
			}

			claimed, err := m.Claim(run)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claimed)
			assert.Empty(t, run.Log)
		})
	}
}

func TestCompleteAndFailRequireRunningTask(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "a")

	_, err := m.Complete(run, "summary")
	assert.ErrorIs(t, err, ErrNoRunningTask)

	_, err = m.ReportFailure(run, "boom")
	assert.ErrorIs(t, err, ErrNoRunningTask)

	assert.Empty(t, run.Log)
	assert.Equal(t, models.TaskStatusPending, run.Tasks[0].Status)
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		summary     string
		wantMessage string
	}{
		{name: "with summary", summary: "added JWT middleware", wantMessage: "added JWT middleware"},
		{name: "without summary", summary: "", wantMessage: "Task 1 completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			run := newTestRun(t, m, 3, "a")
			_, err := m.Claim(run)
			require.NoError(t, err)

			done, err := m.Complete(run, tt.summary)
			require.NoError(t, err)
			assert.Equal(t, models.TaskStatusDone, done.Status)
			assert.Equal(t, tt.summary, done.Summary)
			require.NotNil(t, done.FinishedAt)

			entry := lastLog(run)
			assert.Equal(t, models.LogEventDone, entry.Event)
			assert.Equal(t, tt.wantMessage, entry.Message)
		})
	}
}

func TestFailureLifecycleAndRetry(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "flaky")

	wantStatus := []models.TaskStatus{models.TaskStatusPending, models.TaskStatusPending, models.TaskStatusFailed}
	for i, want := range wantStatus {
		claimed, err := m.Claim(run)
		require.NoError(t, err)
		assert.Equal(t, i+1, claimed.Attempts)

		result, err := m.ReportFailure(run, "tests failed")
		require.NoError(t, err)
		assert.Equal(t, want, result.Task.Status)
		assert.Equal(t, i+1, result.Task.Attempts)
		assert.Equal(t, want == models.TaskStatusFailed, result.Exhausted)
		assert.Equal(t, "tests failed", result.Task.LastError)
	}

	_, err := m.Claim(run)
	assert.ErrorIs(t, err, ErrStuck)

	retried, err := m.RetryLast(run)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, retried.Status)
	assert.Equal(t, 0, retried.Attempts)
	assert.Equal(t, "tests failed", retried.LastError)

	entry := lastLog(run)
	assert.Equal(t, models.LogEventRetry, entry.Event)
	assert.Equal(t, "Reset to pending for retry", entry.Message)

	claimed, err := m.Claim(run)
	require.NoError(t, err)
	assert.Equal(t, 1, claimed.Attempts)
}

func TestFailureMessageTruncated(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "a")
	_, err := m.Claim(run)
	require.NoError(t, err)

	long := strings.Repeat("é", 250)
	result, err := m.ReportFailure(run, long)
	require.NoError(t, err)

	assert.Equal(t, long, result.Task.LastError)
	assert.Equal(t, "Attempt 1/3: "+strings.Repeat("é", 200), lastLog(run).Message)
	assert.Equal(t, models.LogEventFail, lastLog(run).Event)
}

func TestMaxAttemptsFixedAtCreation(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 1, "once")
	run.MaxAttempts = 5

	_, err := m.Claim(run)
	require.NoError(t, err)
	result, err := m.ReportFailure(run, "boom")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, models.TaskStatusFailed, result.Task.Status)
}

func TestRetry(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 1, "a", "b", "c")

	for i := 0; i < 2; i++ {
		_, err := m.Claim(run)
		require.NoError(t, err)
		_, err = m.ReportFailure(run, "boom")
		require.NoError(t, err)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := m.Retry(run, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("not failed", func(t *testing.T) {
		tk, err := m.Retry(run, 3)
		assert.ErrorIs(t, err, ErrNotFailed)
		require.NotNil(t, tk)
		assert.Equal(t, models.TaskStatusPending, tk.Status)
	})

	t.Run("by id", func(t *testing.T) {
		tk, err := m.Retry(run, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, tk.ID)
		assert.Equal(t, models.TaskStatusPending, tk.Status)
	})

	t.Run("last failed", func(t *testing.T) {
		tk, err := m.RetryLast(run)
		require.NoError(t, err)
		assert.Equal(t, 2, tk.ID)
	})

	t.Run("none failed", func(t *testing.T) {
		_, err := m.RetryLast(run)
		assert.ErrorIs(t, err, ErrNoFailedTasks)
	})
}

func TestRetryRunningTaskRejected(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "a")
	_, err := m.Claim(run)
	require.NoError(t, err)

	_, err = m.Retry(run, 1)
	assert.ErrorIs(t, err, ErrNotFailed)
	assert.Equal(t, 1, run.Counts().Running)
}
