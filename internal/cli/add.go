package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/task"
)

var (
	addCheck      string
	addCheckAgent string
	addTarget     int
	addStdin      bool
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a task",
	Long: `Add a task to the current run.

With --stdin a JSON array is read from standard input. Items are either
description strings or objects:

  [{"description": "write handler", "check": "go test ./..."}, "update docs"]`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCheck, "check", "", "Shell command that verifies the task")
	addCmd.Flags().StringVar(&addCheckAgent, "check-agent", "", "Prompt for an agent scorer")
	addCmd.Flags().IntVar(&addTarget, "target", 0, "Score threshold (0-100) for --check-agent")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "Read a JSON array of tasks from stdin")
}

type addResult struct {
	OK   bool         `json:"ok"`
	Task *models.Task `json:"task"`
}

type addBulkResult struct {
	OK    bool           `json:"ok"`
	Added int            `json:"added"`
	Tasks []*models.Task `json:"tasks"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	if addStdin {
		return addFromStdin(cmd, e)
	}

	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return e.fail(missingDescription(cmd))
	}

	opts := task.CreateOptions{Description: description}
	if addCheck != "" || addCheckAgent != "" {
		opts.Check = &models.Check{Command: addCheck, Agent: addCheckAgent}
		if cmd.Flags().Changed("target") {
			target := addTarget
			opts.Check.Target = &target
		}
	}

	var added *models.Task
	_, err = e.store.Update(func(run *models.Run) error {
		var err error
		added, err = e.manager.Add(run, opts)
		return err
	})
	if err != nil {
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(addResult{OK: true, Task: added})
	}
	e.out.Println(styleSuccess.Render("✓"), fmt.Sprintf("Task %d added", added.ID))
	return nil
}

func addFromStdin(cmd *cobra.Command, e *env) error {
	items, err := task.ParseBulk(cmd.InOrStdin())
	if err != nil {
		return e.fail(err)
	}

	var added []*models.Task
	_, err = e.store.Update(func(run *models.Run) error {
		var err error
		added, err = e.manager.AddBulk(run, items)
		return err
	})
	if err != nil {
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(addBulkResult{OK: true, Added: len(added), Tasks: added})
	}
	e.out.Println(styleSuccess.Render("✓"), fmt.Sprintf("Added %d task(s)", len(added)))
	return nil
}

// missingDescription suggests --stdin when input is being piped in.
func missingDescription(cmd *cobra.Command) error {
	ce := &commandError{err: errMissingDescription}
	if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		ce.details = []string{styleHint.Render("Input is piped. Did you mean --stdin?")}
	}
	return ce
}
