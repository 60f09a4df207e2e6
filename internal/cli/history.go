package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/archive"
)

var errArchiveDisabled = errors.New("run history is disabled (archive.enabled: false)")

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show runs replaced by init --force",
	Long: `List archived runs, most recent first.

With a run id the archived state document of that run is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	a, err := e.openArchive()
	if err != nil {
		return e.fail(err)
	}
	if a == nil {
		return e.fail(errArchiveDisabled)
	}
	defer a.Close()

	if len(args) == 1 {
		return showArchivedRun(e, a, args[0])
	}

	entries, err := a.ListRuns(historyLimit)
	if err != nil {
		return e.fail(fmt.Errorf("failed to list archived runs: %w", err))
	}

	if e.out.json {
		if entries == nil {
			entries = []*archive.Entry{}
		}
		return e.out.JSON(map[string]any{"ok": true, "runs": entries})
	}

	if len(entries) == 0 {
		e.out.Println(styleHint.Render("No archived runs."))
		return nil
	}
	for _, entry := range entries {
		e.out.Printf("  %s %s\n",
			styleHint.Render(entry.ArchivedAt.Local().Format("2006-01-02 15:04")),
			styleBold.Render(e.out.Truncate(entry.Goal)))
		e.out.Println(styleHint.Render("    " + entry.RunID + "  " + formatCounts(entry.Counts)))
	}
	return nil
}

func showArchivedRun(e *env, a *archive.Storage, runID string) error {
	run, err := a.GetRun(runID)
	if err != nil {
		return e.fail(err)
	}

	if e.out.json {
		return e.out.JSON(map[string]any{"ok": true, "run": run})
	}

	e.out.Println(styleBold.Render(run.Goal))
	e.out.Println(styleHint.Render("  " + run.ID + "  " + formatCounts(run.Counts())))
	e.out.Println()
	for _, t := range run.Tasks {
		e.out.Println(formatTaskLine(t))
	}
	return nil
}
