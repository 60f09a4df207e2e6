package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/task"
)

var retryCmd = &cobra.Command{
	Use:   "retry [id]",
	Short: "Reset a failed task to pending",
	Long: `Reset a failed task to pending with a fresh attempt budget.

Without an id the most recently added failed task is reset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRetry,
}

type retryResult struct {
	OK     bool `json:"ok"`
	TaskID int  `json:"taskId"`
}

func runRetry(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	id := 0
	if len(args) == 1 {
		id, err = strconv.Atoi(args[0])
		if err != nil {
			return e.fail(fmt.Errorf("%w: invalid task id %q", task.ErrInvalidInput, args[0]))
		}
	}

	var reset *models.Task
	_, err = e.store.Update(func(run *models.Run) error {
		var err error
		if len(args) == 1 {
			reset, err = e.manager.Retry(run, id)
		} else {
			reset, err = e.manager.RetryLast(run)
		}
		return err
	})
	switch {
	case errors.Is(err, task.ErrNotFound):
		return e.fail(&commandError{err: err, fields: map[string]any{"id": id}})
	case errors.Is(err, task.ErrNotFailed):
		return e.fail(&commandError{err: err, fields: map[string]any{"id": reset.ID, "status": reset.Status}})
	case err != nil:
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(retryResult{OK: true, TaskID: reset.ID})
	}

	e.out.Println(styleSuccess.Render("↻"), fmt.Sprintf("Task %d reset to pending", reset.ID))
	e.out.Println(styleHint.Render("  " + reset.Description))
	e.out.Println()
	e.out.Println("Pick it up with " + styleCommand.Render("nanny next"))
	return nil
}
