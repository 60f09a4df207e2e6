package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	panelTasks = 0
	panelLog   = 1
)

// panelLayout holds computed dimensions for the two-panel layout.
type panelLayout struct {
	leftWidth     int
	rightWidth    int
	contentHeight int
}

// leftInner and rightInner return the content size inside the border, below the title row.
func (p panelLayout) leftInner() (int, int)  { return inner(p.leftWidth, p.contentHeight) }
func (p panelLayout) rightInner() (int, int) { return inner(p.rightWidth, p.contentHeight) }

func inner(width, height int) (int, int) {
	return max(width-2, 1), max(height-3, 1)
}

func computeLayout(width, height int, splitRatio float64) panelLayout {
	// 1 line header, 1 line status bar
	contentHeight := height - 2
	if contentHeight < 4 {
		contentHeight = 4
	}

	usable := width - 1 // 1 for divider
	leftWidth := int(float64(usable) * splitRatio)
	rightWidth := usable - leftWidth

	if leftWidth < 10 {
		leftWidth = 10
	}
	if rightWidth < 10 {
		rightWidth = 10
	}

	return panelLayout{
		leftWidth:     leftWidth,
		rightWidth:    rightWidth,
		contentHeight: contentHeight,
	}
}

func renderPanels(leftTitle, leftContent, rightTitle, rightContent string, layout panelLayout, focusedPanel int) string {
	leftStyle := unfocusedBorderStyle
	rightStyle := unfocusedBorderStyle
	if focusedPanel == panelTasks {
		leftStyle = focusedBorderStyle
	} else {
		rightStyle = focusedBorderStyle
	}

	lw, lh := layout.leftInner()
	rw, rh := layout.rightInner()

	left := leftStyle.
		Width(lw).
		Height(lh + 1).
		Render(panelTitleStyle.Render(leftTitle) + "\n" + fitContent(leftContent, lw, lh))

	right := rightStyle.
		Width(rw).
		Height(rh + 1).
		Render(panelTitleStyle.Render(rightTitle) + "\n" + fitContent(rightContent, rw, rh))

	divider := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(strings.TrimSuffix(strings.Repeat("│\n", lipgloss.Height(left)), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)
}

// fitContent clips content to the given dimensions (ANSI-aware).
func fitContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
