package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/state"
)

// RunLoader loads the current run. *state.Store satisfies it.
type RunLoader interface {
	Load() (*models.Run, error)
}

// Model is the root Bubbletea model for the watch dashboard.
// It only reads the state file.
type Model struct {
	loader RunLoader
	now    func() time.Time

	run       *models.Run
	updatedAt time.Time
	removed   bool
	err       error

	// UI state
	focusedPanel int
	showHelp     bool
	splitRatio   float64
	width        int
	height       int

	taskList  *TaskList
	logViewer *LogViewer
}

// NewModel creates the initial dashboard model.
func NewModel(loader RunLoader) Model {
	return Model{
		loader:     loader,
		now:        time.Now,
		splitRatio: 0.45,
		taskList:   NewTaskList(),
		logViewer:  NewLogViewer(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return loadRunCmd(m.loader)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case StateChangedMsg:
		return m, loadRunCmd(m.loader)

	case StateRemovedMsg:
		m.removed = true
		return m, nil

	case RunLoadedMsg:
		m.run = msg.Run
		m.removed = false
		m.err = nil
		m.updatedAt = m.now()
		m.taskList.SetTasks(msg.Run.Tasks)
		m.logViewer.SetEntries(msg.Run.Log)
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		if errors.Is(msg.Err, state.ErrNotInitialized) {
			m.removed = true
		}
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		switch {
		case key.Matches(msg, closeKeys):
			m.showHelp = false
		case key.Matches(msg, globalKeys.Quit):
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return tea.Quit
	case key.Matches(msg, globalKeys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, globalKeys.Tab):
		if m.focusedPanel == panelTasks {
			m.focusedPanel = panelLog
		} else {
			m.focusedPanel = panelTasks
		}
		return nil
	case key.Matches(msg, globalKeys.Reload):
		return loadRunCmd(m.loader)
	}

	if m.focusedPanel == panelTasks {
		switch {
		case key.Matches(msg, navKeys.Up):
			m.taskList.MoveUp()
		case key.Matches(msg, navKeys.Down):
			m.taskList.MoveDown()
		}
		return nil
	}

	switch {
	case key.Matches(msg, navKeys.Up):
		m.logViewer.MoveUp()
	case key.Matches(msg, navKeys.Down):
		m.logViewer.MoveDown()
	case key.Matches(msg, navKeys.PageUp):
		m.logViewer.PageUp()
	case key.Matches(msg, navKeys.PageDown):
		m.logViewer.PageDown()
	case key.Matches(msg, navKeys.Bottom):
		m.logViewer.Follow()
	}
	return nil
}

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	_, lh := layout.leftInner()
	rw, rh := layout.rightInner()

	// Leave room under the list for the selected task's details.
	m.taskList.SetHeight(max(lh-detailRows, 1))
	m.logViewer.SetSize(rw, rh)
}

// detailRows is the height reserved for the task detail block.
const detailRows = 7

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	layout := computeLayout(m.width, m.height, m.splitRatio)
	lw, _ := layout.leftInner()

	left := m.taskList.View(lw)
	if detail := m.taskList.Detail(lw); detail != "" {
		left += "\n\n" + detail
	}

	logTitle := "Log"
	if m.run != nil {
		logTitle = fmt.Sprintf("Log (%d)", m.logViewer.Len())
	}

	body := renderPanels("Tasks", left, logTitle, m.logViewer.View(), layout, m.focusedPanel)
	if m.showHelp {
		body = lipgloss.Place(m.width, layout.contentHeight, lipgloss.Center, lipgloss.Center, renderHelp(m.width))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.run, m.width),
		body,
		renderStatusBar(&m, m.width),
	)
}

func loadRunCmd(loader RunLoader) tea.Cmd {
	return func() tea.Msg {
		run, err := loader.Load()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return RunLoadedMsg{Run: run}
	}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}
