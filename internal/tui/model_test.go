package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/state"
)

type fakeLoader struct {
	run *models.Run
	err error
}

func (f *fakeLoader) Load() (*models.Run, error) {
	return f.run, f.err
}

func sampleRun() *models.Run {
	now := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)
	run := models.NewRun("run-1", "ship the auth service", 3, now)
	run.Tasks = []*models.Task{
		{ID: 1, Description: "write handler", Status: models.TaskStatusDone, Attempts: 1, MaxAttempts: 3, Summary: "handler added"},
		{ID: 2, Description: "add tests", Status: models.TaskStatusRunning, Attempts: 2, MaxAttempts: 3, LastError: "flaky"},
		{ID: 3, Description: "update docs", Status: models.TaskStatusPending, MaxAttempts: 3},
	}
	run.AppendLog(now, 1, models.LogEventStart, "Attempt 1/3: write handler")
	run.AppendLog(now, 1, models.LogEventDone, "handler added")
	run.AppendLog(now, 2, models.LogEventStart, "Attempt 1/3: add tests")
	return run
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	loader := &fakeLoader{run: sampleRun()}
	m := NewModel(loader)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := m.Init()()
	m, _ = update(t, m, msg)
	return m
}

func TestInitLoadsRun(t *testing.T) {
	m := loadedModel(t)

	require.NotNil(t, m.run)
	assert.Equal(t, "ship the auth service", m.run.Goal)
	assert.Equal(t, 3, m.logViewer.Len())

	view := m.View()
	assert.Contains(t, view, "ship the auth service")
	assert.Contains(t, view, "add tests")
	assert.Contains(t, view, "Task #2")
}

func TestTaskListGroupsRunningFirst(t *testing.T) {
	m := loadedModel(t)

	selected := m.taskList.SelectedTask()
	require.NotNil(t, selected)
	assert.Equal(t, 2, selected.ID)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 3, m.taskList.SelectedTask().ID)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.taskList.SelectedTask().ID)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.taskList.SelectedTask().ID)
}

func TestSelectionSurvivesReload(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	require.Equal(t, 3, m.taskList.SelectedTask().ID)

	run := sampleRun()
	run.Tasks[1].Status = models.TaskStatusDone
	m, _ = update(t, m, RunLoadedMsg{Run: run})

	assert.Equal(t, 3, m.taskList.SelectedTask().ID)
}

func TestStateChangeTriggersReload(t *testing.T) {
	m := loadedModel(t)

	_, cmd := update(t, m, StateChangedMsg{})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, RunLoadedMsg{}, msg)
}

func TestLoadErrorShownInStatusBar(t *testing.T) {
	loader := &fakeLoader{err: fmt.Errorf("%w at .nanny/state.json", state.ErrNotInitialized)}
	m := NewModel(loader)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, m.Init()())
	require.NotNil(t, cmd)
	assert.True(t, m.removed)
	assert.Contains(t, m.View(), "no run found")

	m, _ = update(t, m, ClearErrorMsg{})
	assert.Nil(t, m.err)
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedModel(t)
			_, cmd := update(t, m, tt.msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestTabSwitchesFocus(t *testing.T) {
	m := loadedModel(t)
	assert.Equal(t, panelTasks, m.focusedPanel)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, panelLog, m.focusedPanel)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, panelTasks, m.focusedPanel)
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name   string
		counts models.Counts
	}{
		{name: "empty", counts: models.Counts{}},
		{name: "partial", counts: models.Counts{Total: 4, Done: 1, Failed: 1, Pending: 2}},
		{name: "all done", counts: models.Counts{Total: 3, Done: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderBar(tt.counts, 20)
			assert.Equal(t, 20, lipgloss.Width(bar))
		})
	}
}
