package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
)

const statusBarCells = 30

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run progress",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

type currentTask struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"maxAttempts"`
}

type statusResult struct {
	OK   bool   `json:"ok"`
	Goal string `json:"goal"`
	models.Counts
	CurrentTask *currentTask `json:"currentTask,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	run, err := e.store.Load()
	if err != nil {
		return e.fail(err)
	}

	counts := run.Counts()
	running := run.FindRunning()

	if e.out.json {
		res := statusResult{OK: true, Goal: run.Goal, Counts: counts}
		if running != nil {
			res.CurrentTask = &currentTask{
				ID:          running.ID,
				Description: running.Description,
				Attempt:     running.Attempts,
				MaxAttempts: running.MaxAttempts,
			}
		}
		return e.out.JSON(res)
	}

	e.out.Println(styleBold.Render(run.Goal))
	e.out.Println()

	if counts.Total == 0 {
		e.out.Println(styleHint.Render("  No tasks yet."))
		e.out.Println()
		e.out.Println("Add tasks with " + styleCommand.Render("nanny add"))
		return nil
	}

	e.out.Printf("  %s %d/%d\n", progressBar(counts, statusBarCells), counts.Done, counts.Total)
	e.out.Println()

	if running != nil {
		e.out.Printf("  %s running: %s %s\n", statusIcons[models.TaskStatusRunning],
			e.out.Truncate(running.Description),
			styleHint.Render(fmt.Sprintf("(attempt %d/%d)", running.Attempts, running.MaxAttempts)))
	}
	if counts.Done > 0 {
		e.out.Printf("  %s %d done\n", statusIcons[models.TaskStatusDone], counts.Done)
	}
	if counts.Failed > 0 {
		e.out.Printf("  %s %d failed\n", statusIcons[models.TaskStatusFailed], counts.Failed)
	}
	if counts.Pending > 0 {
		e.out.Printf("  %s %d pending\n", statusIcons[models.TaskStatusPending], counts.Pending)
	}

	if counts.AllDone() {
		e.out.Println()
		e.out.Println(styleSuccess.Render("  All tasks complete!"))
	}
	return nil
}

// progressBar draws rounded done and failed segments followed by the rest.
func progressBar(c models.Counts, cells int) string {
	if c.Total == 0 {
		return styleHint.Render(strings.Repeat("░", cells))
	}
	done := roundCells(c.Done, c.Total, cells)
	failed := min(roundCells(c.Failed, c.Total, cells), cells-done)
	rest := cells - done - failed

	return styleSuccess.Render(strings.Repeat("█", done)) +
		styleError.Render(strings.Repeat("█", failed)) +
		styleHint.Render(strings.Repeat("░", rest))
}

func roundCells(n, total, cells int) int {
	return int(math.Floor(float64(n)/float64(total)*float64(cells) + 0.5))
}

func formatCounts(c models.Counts) string {
	return fmt.Sprintf("%d/%d done, %d failed, %d running, %d pending",
		c.Done, c.Total, c.Failed, c.Running, c.Pending)
}
