package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/state"
)

var (
	initMaxAttempts int
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init <goal>",
	Short: "Create a new run",
	Long: `Create a new run for the given goal.

An existing run is kept unless --force is given. With --force the old run is
saved to the history archive (when enabled) and replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initMaxAttempts, "max-attempts", 0, "Max attempts per task (default from settings: 3)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace existing run")
}

type initResult struct {
	OK   bool   `json:"ok"`
	ID   string `json:"id"`
	Goal string `json:"goal"`
	File string `json:"file"`
}

func runInit(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	goal := strings.Join(args, " ")
	maxAttempts := e.settings.MaxAttempts
	if cmd.Flags().Changed("max-attempts") {
		maxAttempts = initMaxAttempts
	}

	store := e.store
	if initForce {
		a, err := e.openArchive()
		if err != nil {
			return e.fail(err)
		}
		if a != nil {
			defer a.Close()
			store = e.newStore(state.WithArchiver(a))
		}
	}

	run, err := store.Initialize(goal, maxAttempts, initForce)
	if errors.Is(err, state.ErrRunExists) {
		return e.fail(runExistsError(run, err))
	}
	if err != nil {
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(initResult{OK: true, ID: run.ID, Goal: run.Goal, File: store.Path()})
	}

	e.out.Println(styleSuccess.Render("✓"), "Run created")
	e.out.Println(styleHint.Render("  Goal: " + run.Goal))
	e.out.Println(styleHint.Render("  File: " + store.Path()))
	e.out.Println()
	e.out.Println("Add tasks with " + styleCommand.Render("nanny add") + " or pipe JSON with " + styleCommand.Render("nanny add --stdin"))
	return nil
}

// runExistsError describes the run that blocked init.
func runExistsError(existing *models.Run, err error) error {
	c := existing.Counts()
	return &commandError{
		err: err,
		fields: map[string]any{
			"goal":    existing.Goal,
			"total":   c.Total,
			"done":    c.Done,
			"failed":  c.Failed,
			"running": c.Running,
			"pending": c.Pending,
			"hint":    "Use --force to replace the existing run.",
		},
		details: []string{
			styleBold.Render(existing.Goal),
			styleHint.Render(formatCounts(c)),
		},
	}
}
