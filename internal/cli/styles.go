package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/watchfire-io/nanny/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleActive  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Status icons, shared by list and status.
var statusIcons = map[models.TaskStatus]string{
	models.TaskStatusDone:    styleSuccess.Render("✓"),
	models.TaskStatusFailed:  styleError.Render("✗"),
	models.TaskStatusRunning: styleActive.Render("▶"),
	models.TaskStatusPending: styleHint.Render("○"),
}

// Log event styles and icons.
var (
	eventStyles = map[models.LogEvent]lipgloss.Style{
		models.LogEventStart: styleActive,
		models.LogEventDone:  styleSuccess,
		models.LogEventFail:  styleError,
		models.LogEventRetry: styleWarning,
	}

	eventIcons = map[models.LogEvent]string{
		models.LogEventStart: "▶",
		models.LogEventDone:  "✓",
		models.LogEventFail:  "✗",
		models.LogEventRetry: "↻",
	}
)
