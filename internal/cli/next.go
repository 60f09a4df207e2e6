package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/task"
)

// previewRunes bounds error text echoed back in next and list.
const previewRunes = 120

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Claim the next pending task",
	Long: `Claim the next pending task in insertion order.

If a task is already running it is shown again instead. Exits non-zero when the
run has no tasks or when nothing is pending and some tasks have failed.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

type claimedTask struct {
	ID            int           `json:"id"`
	Description   string        `json:"description"`
	Check         *models.Check `json:"check,omitempty"`
	Attempt       int           `json:"attempt"`
	MaxAttempts   int           `json:"maxAttempts"`
	PreviousError string        `json:"previousError,omitempty"`
}

type failedTask struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Attempts    int    `json:"attempts"`
	LastError   string `json:"lastError,omitempty"`
}

func runNext(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	var claimed *models.Task
	run, err := e.store.Update(func(run *models.Run) error {
		var err error
		claimed, err = e.manager.Claim(run)
		return err
	})

	switch {
	case err == nil:
		return e.printClaimed(claimed)
	case errors.Is(err, task.ErrAlreadyRunning):
		return e.printResumed(claimed)
	case errors.Is(err, task.ErrAllDone):
		return e.printAllDone(run)
	case errors.Is(err, task.ErrStuck):
		return e.printStuck(run)
	case errors.Is(err, task.ErrEmpty):
		return e.printEmpty()
	default:
		return e.fail(err)
	}
}

func (e *env) printClaimed(t *models.Task) error {
	if e.out.json {
		return e.out.JSON(map[string]any{
			"ok": true,
			"task": claimedTask{
				ID:            t.ID,
				Description:   t.Description,
				Check:         t.Check,
				Attempt:       t.Attempts,
				MaxAttempts:   t.MaxAttempts,
				PreviousError: t.LastError,
			},
		})
	}

	e.out.Println(styleActive.Render("▶"), fmt.Sprintf("Task %d: %s", t.ID, t.Description))
	if t.Check != nil && t.Check.Command != "" {
		e.out.Println(styleHint.Render("  Check: " + t.Check.Command))
	}
	if t.Check != nil && t.Check.Agent != "" {
		e.out.Println(styleHint.Render("  Scorer: " + t.Check.Agent))
	}
	e.out.Println(styleHint.Render(fmt.Sprintf("  Attempt: %d/%d", t.Attempts, t.MaxAttempts)))
	if t.LastError != "" {
		e.out.Println(styleError.Render("  Previous error: " + preview(t.LastError)))
	}
	return nil
}

func (e *env) printResumed(t *models.Task) error {
	if e.out.json {
		return e.out.JSON(map[string]any{"ok": true, "task": t, "resumed": true})
	}

	e.out.Println(styleWarning.Render("▶"), fmt.Sprintf("Task %d is already running", t.ID))
	e.out.Println(styleHint.Render("  " + t.Description))
	e.out.Println()
	e.out.Println("Complete with " + styleCommand.Render("nanny done") + " or " + styleCommand.Render("nanny fail"))
	return nil
}

func (e *env) printAllDone(run *models.Run) error {
	c := run.Counts()
	if e.out.json {
		return e.out.JSON(map[string]any{"ok": true, "done": true, "total": c.Total, "completed": c.Done})
	}
	e.out.Println(styleSuccess.Render("✓"), fmt.Sprintf("All %d tasks complete.", c.Total))
	return nil
}

// printStuck lists the failed tasks. The command exits non-zero.
func (e *env) printStuck(run *models.Run) error {
	failed := run.Failed()
	if e.out.json {
		items := make([]failedTask, 0, len(failed))
		for _, t := range failed {
			items = append(items, failedTask{ID: t.ID, Description: t.Description, Attempts: t.Attempts, LastError: t.LastError})
		}
		if err := e.out.JSON(map[string]any{"ok": true, "stuck": true, "failed": items}); err != nil {
			return err
		}
		return errReported
	}

	e.out.Println(styleError.Render("✗"), fmt.Sprintf("Stuck: %d task(s) failed", len(failed)))
	for _, t := range failed {
		e.out.Println(styleHint.Render(fmt.Sprintf("  %d. %s (%d attempts)", t.ID, t.Description, t.Attempts)))
		if t.LastError != "" {
			e.out.Println(styleError.Render("     " + preview(t.LastError)))
		}
	}
	e.out.Println()
	e.out.Println("Retry with " + styleCommand.Render("nanny retry") + " or " + styleCommand.Render("nanny retry <id>"))
	return errReported
}

// printEmpty reports a run with no tasks. The command exits non-zero.
func (e *env) printEmpty() error {
	if e.out.json {
		if err := e.out.JSON(map[string]any{"ok": true, "empty": true, "total": 0}); err != nil {
			return err
		}
		return errReported
	}
	e.out.Println(styleHint.Render("No tasks. Add some with"), styleCommand.Render("nanny add"))
	return errReported
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes])
}
