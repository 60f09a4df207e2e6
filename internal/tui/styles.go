package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/nanny/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)
)

// Task list styles.
var (
	taskPendingStyle = lipgloss.NewStyle().Foreground(colorCyan)
	taskRunningStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	taskDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	taskFailedStyle  = lipgloss.NewStyle().Foreground(colorRed)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})

	detailLabelStyle = lipgloss.NewStyle().
				Width(10).
				Foreground(colorDim)
)

// Run badge styles.
var (
	badgeIdleStyle    = lipgloss.NewStyle().Foreground(colorDim)
	badgeRunningStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	badgeDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgeStuckStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// Help overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// statusStyle returns the style for a task status.
func statusStyle(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.TaskStatusRunning:
		return taskRunningStyle
	case models.TaskStatusDone:
		return taskDoneStyle
	case models.TaskStatusFailed:
		return taskFailedStyle
	default:
		return taskPendingStyle
	}
}
