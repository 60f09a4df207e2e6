package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
)

var doneCmd = &cobra.Command{
	Use:   "done [summary]",
	Short: "Mark the running task as done",
	RunE:  runDone,
}

type doneResult struct {
	OK        bool `json:"ok"`
	TaskID    int  `json:"taskId"`
	Completed int  `json:"completed"`
	Total     int  `json:"total"`
	Remaining int  `json:"remaining"`
}

func runDone(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	summary := strings.TrimSpace(strings.Join(args, " "))

	var completed *models.Task
	run, err := e.store.Update(func(run *models.Run) error {
		var err error
		completed, err = e.manager.Complete(run, summary)
		return err
	})
	if err != nil {
		return e.fail(err)
	}

	c := run.Counts()
	if e.out.json {
		return e.out.JSON(doneResult{OK: true, TaskID: completed.ID, Completed: c.Done, Total: c.Total, Remaining: c.Pending})
	}

	e.out.Println(styleSuccess.Render("✓"), fmt.Sprintf("Task %d done", completed.ID), styleHint.Render(fmt.Sprintf("(%d/%d)", c.Done, c.Total)))
	if summary != "" {
		e.out.Println(styleHint.Render("  " + e.out.Truncate(summary)))
	}
	switch {
	case c.Pending > 0:
		e.out.Println()
		e.out.Println("Next: " + styleCommand.Render("nanny next"))
	case c.AllDone():
		e.out.Println()
		e.out.Println(styleSuccess.Render("All tasks complete!"))
	}
	return nil
}
