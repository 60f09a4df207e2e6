package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/nanny/internal/models"
)

// LogViewer displays the run's event log in a scrollable viewport.
// It follows the tail until the user scrolls up.
type LogViewer struct {
	viewport viewport.Model
	width    int
	height   int
	count    int
	follow   bool
}

// NewLogViewer creates a new log viewer.
func NewLogViewer() *LogViewer {
	vp := viewport.New(80, 24)
	return &LogViewer{
		viewport: vp,
		follow:   true,
	}
}

// SetSize updates dimensions.
func (l *LogViewer) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = width
	l.viewport.Height = height
	if l.follow {
		l.viewport.GotoBottom()
	}
}

// SetEntries replaces the log content.
func (l *LogViewer) SetEntries(entries []models.LogEntry) {
	l.count = len(entries)

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogLine(e))
	}
	l.viewport.SetContent(strings.Join(lines, "\n"))

	if l.follow {
		l.viewport.GotoBottom()
	}
}

// Len returns the number of entries shown.
func (l *LogViewer) Len() int {
	return l.count
}

// Following reports whether the viewer is pinned to the newest entry.
func (l *LogViewer) Following() bool {
	return l.follow
}

// MoveUp scrolls up one line and stops following.
func (l *LogViewer) MoveUp() {
	l.viewport.LineUp(1)
	l.follow = l.viewport.AtBottom()
}

// MoveDown scrolls down one line.
func (l *LogViewer) MoveDown() {
	l.viewport.LineDown(1)
	l.follow = l.viewport.AtBottom()
}

// PageUp scrolls the viewport up.
func (l *LogViewer) PageUp() {
	l.viewport.HalfViewUp()
	l.follow = l.viewport.AtBottom()
}

// PageDown scrolls the viewport down.
func (l *LogViewer) PageDown() {
	l.viewport.HalfViewDown()
	l.follow = l.viewport.AtBottom()
}

// Follow jumps to the newest entry and keeps following.
func (l *LogViewer) Follow() {
	l.follow = true
	l.viewport.GotoBottom()
}

// View renders the log viewer.
func (l *LogViewer) View() string {
	if l.count == 0 {
		return lipgloss.NewStyle().Foreground(colorDim).Width(l.width).Align(lipgloss.Center).
			Render("\nNo events yet.")
	}
	return l.viewport.View()
}

func formatLogLine(e models.LogEntry) string {
	return fmt.Sprintf("%s %s %s %s",
		lipgloss.NewStyle().Foreground(colorDim).Render(e.Timestamp.Local().Format("15:04:05")),
		eventIcon(e.Event),
		lipgloss.NewStyle().Foreground(colorWhite).Bold(true).Render(fmt.Sprintf("#%d", e.TaskID)),
		e.Message,
	)
}

func eventIcon(event models.LogEvent) string {
	switch event {
	case models.LogEventStart:
		return taskRunningStyle.Render("▶")
	case models.LogEventDone:
		return taskDoneStyle.Render("✓")
	case models.LogEventFail:
		return taskFailedStyle.Render("✗")
	case models.LogEventRetry:
		return taskPendingStyle.Render("↻")
	}
	return " "
}
