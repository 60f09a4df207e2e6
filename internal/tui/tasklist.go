package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/nanny/internal/models"
)

// TaskList is the task list component for the left panel.
type TaskList struct {
	tasks        []*models.Task
	flatItems    []taskItem // Flattened list for cursor navigation
	cursor       int
	scrollOffset int
	height       int
}

type taskItem struct {
	task      *models.Task
	isHeader  bool
	headerStr string
}

// NewTaskList creates a new task list.
func NewTaskList() *TaskList {
	return &TaskList{}
}

// SetTasks updates the task list data and rebuilds the flat item list.
// The cursor stays on the same task ID when it still exists.
func (tl *TaskList) SetTasks(tasks []*models.Task) {
	selected := 0
	if t := tl.SelectedTask(); t != nil {
		selected = t.ID
	}

	tl.tasks = tasks
	tl.rebuild()

	tl.cursor = 0
	for i, item := range tl.flatItems {
		if !item.isHeader && item.task.ID == selected {
			tl.cursor = i
			break
		}
	}
	tl.skipHeaders(1)
	tl.ensureVisible()
}

// SetHeight sets the visible height.
func (tl *TaskList) SetHeight(h int) {
	tl.height = h
}

// SelectedTask returns the currently selected task, or nil.
func (tl *TaskList) SelectedTask() *models.Task {
	if tl.cursor < 0 || tl.cursor >= len(tl.flatItems) {
		return nil
	}
	item := tl.flatItems[tl.cursor]
	if item.isHeader {
		return nil
	}
	return item.task
}

// MoveUp moves the cursor up, skipping headers.
func (tl *TaskList) MoveUp() {
	if len(tl.flatItems) == 0 {
		return
	}
	tl.cursor--
	if tl.cursor < 0 {
		tl.cursor = 0
	}
	tl.skipHeaders(-1)
	tl.ensureVisible()
}

// MoveDown moves the cursor down, skipping headers.
func (tl *TaskList) MoveDown() {
	if len(tl.flatItems) == 0 {
		return
	}
	tl.cursor++
	if tl.cursor >= len(tl.flatItems) {
		tl.cursor = len(tl.flatItems) - 1
	}
	tl.skipHeaders(1)
	tl.ensureVisible()
}

func (tl *TaskList) skipHeaders(direction int) {
	for tl.cursor >= 0 && tl.cursor < len(tl.flatItems) && tl.flatItems[tl.cursor].isHeader {
		tl.cursor += direction
	}
	if tl.cursor < 0 {
		tl.cursor = 0
		for tl.cursor < len(tl.flatItems) && tl.flatItems[tl.cursor].isHeader {
			tl.cursor++
		}
	}
	if tl.cursor >= len(tl.flatItems) {
		tl.cursor = len(tl.flatItems) - 1
		for tl.cursor >= 0 && tl.flatItems[tl.cursor].isHeader {
			tl.cursor--
		}
	}
}

func (tl *TaskList) ensureVisible() {
	if tl.height <= 0 {
		return
	}
	if tl.cursor < tl.scrollOffset {
		tl.scrollOffset = tl.cursor
	}
	if tl.cursor >= tl.scrollOffset+tl.height {
		tl.scrollOffset = tl.cursor - tl.height + 1
	}
}

// rebuild groups tasks by status. Insertion order is kept within a group.
func (tl *TaskList) rebuild() {
	groups := map[models.TaskStatus][]*models.Task{}
	for _, t := range tl.tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}

	sections := []struct {
		name   string
		status models.TaskStatus
	}{
		{"Running", models.TaskStatusRunning},
		{"Pending", models.TaskStatusPending},
		{"Failed", models.TaskStatusFailed},
		{"Done", models.TaskStatusDone},
	}

	var items []taskItem
	for _, sec := range sections {
		tasks := groups[sec.status]
		if len(tasks) == 0 {
			continue
		}
		items = append(items, taskItem{
			isHeader:  true,
			headerStr: fmt.Sprintf("%s (%d)", sec.name, len(tasks)),
		})
		for _, t := range tasks {
			items = append(items, taskItem{task: t})
		}
	}

	tl.flatItems = items
}

// View renders the task list.
func (tl *TaskList) View(width int) string {
	if len(tl.flatItems) == 0 {
		return lipgloss.NewStyle().Foreground(colorDim).Render("No tasks. Add one with 'nanny add'.")
	}

	var lines []string
	end := len(tl.flatItems)
	if tl.height > 0 && tl.scrollOffset+tl.height < end {
		end = tl.scrollOffset + tl.height
	}

	for i := tl.scrollOffset; i < end; i++ {
		item := tl.flatItems[i]

		if item.isHeader {
			line := sectionHeaderStyle.Render(item.headerStr)
			if i > 0 {
				line = "\n" + line
			}
			lines = append(lines, line)
			continue
		}

		t := item.task
		title := fmt.Sprintf("%s #%d %s", taskBadge(t), t.ID, t.Description)
		if t.Attempts > 0 {
			title += fmt.Sprintf(" (%d/%d)", t.Attempts, t.MaxAttempts)
		}

		// 2 for indent prefix
		maxWidth := width - 2
		if maxWidth > 0 {
			title = ansi.Truncate(title, maxWidth, "…")
		}

		line := statusStyle(t.Status).Render(title)
		if i == tl.cursor {
			line = selectedItemStyle.Width(maxWidth).Render(title)
		}
		lines = append(lines, "  "+line)
	}

	if tl.scrollOffset > 0 {
		lines = append([]string{lipgloss.NewStyle().Foreground(colorDim).Render("  ▲ more")}, lines...)
	}
	if end < len(tl.flatItems) {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDim).Render("  ▼ more"))
	}

	return strings.Join(lines, "\n")
}

// Detail renders the selected task's metadata.
func (tl *TaskList) Detail(width int) string {
	t := tl.SelectedTask()
	if t == nil {
		return ""
	}

	rows := [][2]string{
		{"Status", statusStyle(t.Status).Render(string(t.Status))},
		{"Attempts", fmt.Sprintf("%d/%d", t.Attempts, t.MaxAttempts)},
	}
	if t.Check != nil {
		if t.Check.Command != "" {
			rows = append(rows, [2]string{"Check", t.Check.Command})
		}
		if t.Check.Agent != "" {
			agent := t.Check.Agent
			if t.Check.Target != nil {
				agent = fmt.Sprintf("%s (target %d)", agent, *t.Check.Target)
			}
			rows = append(rows, [2]string{"Agent", agent})
		}
	}
	if t.Summary != "" {
		rows = append(rows, [2]string{"Summary", t.Summary})
	}
	if t.LastError != "" {
		rows = append(rows, [2]string{"Error", taskFailedStyle.Render(t.LastError)})
	}

	lines := []string{lipgloss.NewStyle().Foreground(colorDim).Render(strings.Repeat("─", max(width, 1)))}
	for _, r := range rows {
		line := detailLabelStyle.Render(r[0]) + r[1]
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(lines, "\n")
}

func taskBadge(t *models.Task) string {
	switch t.Status {
	case models.TaskStatusRunning:
		return taskRunningStyle.Render("[▶]")
	case models.TaskStatusDone:
		return taskDoneStyle.Render("[✓]")
	case models.TaskStatusFailed:
		return taskFailedStyle.Render("[✗]")
	}
	return taskPendingStyle.Render("[ ]")
}
