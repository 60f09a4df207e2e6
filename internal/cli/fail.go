package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/task"
)

var failCmd = &cobra.Command{
	Use:   "fail <error>",
	Short: "Report a failed attempt of the running task",
	Long: `Report a failed attempt of the running task.

The task goes back to pending while it has attempts left and is marked failed
once they run out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFail,
}

type failResult struct {
	OK          bool              `json:"ok"`
	TaskID      int               `json:"taskId"`
	Attempt     int               `json:"attempt"`
	MaxAttempts int               `json:"maxAttempts"`
	Exhausted   bool              `json:"exhausted"`
	Status      models.TaskStatus `json:"status"`
}

func runFail(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	errText := strings.Join(args, " ")

	var res *task.FailResult
	_, err = e.store.Update(func(run *models.Run) error {
		var err error
		res, err = e.manager.ReportFailure(run, errText)
		return err
	})
	if err != nil {
		return e.fail(err)
	}

	t := res.Task
	if e.out.json {
		return e.out.JSON(failResult{
			OK:          true,
			TaskID:      t.ID,
			Attempt:     t.Attempts,
			MaxAttempts: t.MaxAttempts,
			Exhausted:   res.Exhausted,
			Status:      t.Status,
		})
	}

	if res.Exhausted {
		e.out.Println(styleError.Render("✗"), fmt.Sprintf("Task %d failed, exhausted %d attempts", t.ID, t.MaxAttempts))
		e.out.Println(styleError.Render("  " + e.out.Truncate(errText)))
		e.out.Println()
		e.out.Println("Retry with " + styleCommand.Render("nanny retry") + " or move on with " + styleCommand.Render("nanny next"))
		return nil
	}

	e.out.Println(styleWarning.Render("↻"), fmt.Sprintf("Task %d failed, will retry", t.ID), styleHint.Render(fmt.Sprintf("(%d/%d)", t.Attempts, t.MaxAttempts)))
	e.out.Println(styleHint.Render("  " + e.out.Truncate(errText)))
	e.out.Println()
	e.out.Println("Continue with " + styleCommand.Render("nanny next"))
	return nil
}
