package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	left := " " + getKeyHints(m)

	var right string
	switch {
	case m.removed:
		right = lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⚠ State file missing") + " "
	case !m.updatedAt.IsZero():
		right = hintStyle.Render("Updated "+m.updatedAt.Local().Format("15:04:05")) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.showHelp {
		return keyHint("Esc", "close")
	}

	base := keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " + keyHint("Tab", "switch")
	if m.focusedPanel == panelTasks {
		return base + "  " + keyHint("j/k", "select")
	}

	hints := base + "  " + keyHint("j/k", "scroll") + "  " + keyHint("PgUp/PgDn", "page")
	if !m.logViewer.Following() {
		hints += "  " + keyHint("G", "follow")
	}
	return hints
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
