package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/nanny/internal/models"
)

const headerBarCells = 20

func renderHeader(run *models.Run, width int) string {
	name := lipgloss.NewStyle().Bold(true).Render("nanny")
	dot := lipgloss.NewStyle().Foreground(colorCyan).Render("●")

	goal := ""
	right := badgeIdleStyle.Render("○ No run") + " "
	if run != nil {
		counts := run.Counts()
		goal = run.Goal
		right = fmt.Sprintf("%s %d/%d  %s ",
			renderBar(counts, headerBarCells), counts.Done, counts.Total, renderRunBadge(run))
	}

	left := fmt.Sprintf(" %s %s  ", dot, name)
	room := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if room > 0 && goal != "" {
		left += ansi.Truncate(goal, room, "…")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderBar draws done cells, then failed cells, then the rest.
func renderBar(c models.Counts, cells int) string {
	if c.Total == 0 {
		return hintStyle.Render(strings.Repeat("░", cells))
	}
	done := c.Done * cells / c.Total
	failed := c.Failed * cells / c.Total
	rest := cells - done - failed

	return taskDoneStyle.Render(strings.Repeat("█", done)) +
		taskFailedStyle.Render(strings.Repeat("█", failed)) +
		hintStyle.Render(strings.Repeat("░", rest))
}

func renderRunBadge(run *models.Run) string {
	if t := run.FindRunning(); t != nil {
		return badgeRunningStyle.Render(fmt.Sprintf("▶ Task #%d", t.ID))
	}

	counts := run.Counts()
	switch {
	case counts.Total == 0:
		return badgeIdleStyle.Render("○ Empty")
	case counts.AllDone():
		return badgeDoneStyle.Render("✓ All done")
	case counts.Pending == 0 && counts.Failed > 0:
		return badgeStuckStyle.Render("✗ Stuck")
	default:
		return badgeIdleStyle.Render("● Idle")
	}
}
