package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all tasks with status",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

type listResult struct {
	OK    bool           `json:"ok"`
	Goal  string         `json:"goal"`
	Tasks []*models.Task `json:"tasks"`
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	run, err := e.store.Load()
	if err != nil {
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(listResult{OK: true, Goal: run.Goal, Tasks: run.Tasks})
	}

	if len(run.Tasks) == 0 {
		e.out.Println(styleHint.Render("No tasks."))
		e.out.Println("Add some with " + styleCommand.Render("nanny add"))
		return nil
	}

	e.out.Println(styleBold.Render(run.Goal))
	e.out.Println()
	for _, t := range run.Tasks {
		e.out.Println(formatTaskLine(t))
		switch {
		case t.Status == models.TaskStatusDone && t.Summary != "":
			e.out.Println(styleSuccess.Render("     " + e.out.Truncate(t.Summary)))
		case t.Status == models.TaskStatusFailed && t.LastError != "":
			e.out.Println(styleError.Render("     " + e.out.Truncate(t.LastError)))
		}
	}
	return nil
}

func formatTaskLine(t *models.Task) string {
	icon, ok := statusIcons[t.Status]
	if !ok {
		icon = "?"
	}
	line := fmt.Sprintf("  %s %d. %s", icon, t.ID, t.Description)
	if t.Attempts > 0 {
		line += styleHint.Render(fmt.Sprintf(" (%d/%d)", t.Attempts, t.MaxAttempts))
	}
	return line
}
