package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{globalKeys.Quit.Help().Key + " / Ctrl+c", "Quit"},
			{globalKeys.Help.Help().Key, "Toggle help"},
			{globalKeys.Tab.Help().Key, "Switch panel focus"},
			{globalKeys.Reload.Help().Key, "Reload state file"},
		},
	},
	{
		title: "Tasks",
		keys: []helpKey{
			{"j/k ↑/↓", "Select task"},
		},
	},
	{
		title: "Log",
		keys: []helpKey{
			{"j/k ↑/↓", "Scroll"},
			{"PgUp/PgDn", "Scroll half a page"},
			{navKeys.Bottom.Help().Key, "Jump to newest and follow"},
		},
	},
}

// renderHelp renders the help overlay content.
func renderHelp(width int) string {
	maxWidth := 50
	if width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	sections := []string{overlayTitleStyle.Render("Keyboard Shortcuts")}
	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(14).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			sections = append(sections, "  "+keyCol+hintStyle.Render(k.desc))
		}
	}
	sections = append(sections, "", hintStyle.Render("Press Esc or ? to close"))

	return overlayStyle.Width(maxWidth).Render(strings.Join(sections, "\n"))
}
