package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/models"
)

var logLines int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent log entries",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 0, "Number of entries to show (default from settings: 20)")
}

type logResult struct {
	OK      bool              `json:"ok"`
	Entries []models.LogEntry `json:"entries"`
}

func runLog(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	n := e.settings.LogLines
	if cmd.Flags().Changed("lines") {
		n = logLines
	}

	run, err := e.store.Load()
	if err != nil {
		return e.fail(err)
	}
	entries := run.Tail(n)

	if e.out.json {
		return e.out.JSON(logResult{OK: true, Entries: entries})
	}

	if len(entries) == 0 {
		e.out.Println(styleHint.Render("No log entries."))
		return nil
	}
	for _, entry := range entries {
		e.out.Println(e.out.Truncate(formatLogEntry(entry)))
	}
	return nil
}

func formatLogEntry(entry models.LogEntry) string {
	icon, ok := eventIcons[entry.Event]
	if !ok {
		icon = " "
	}
	style, ok := eventStyles[entry.Event]
	if !ok {
		style = styleHint
	}
	return "  " + styleHint.Render(entry.Timestamp.Local().Format("15:04:05")) + " " +
		style.Render(icon) + " " +
		styleHint.Render(fmt.Sprintf("[%d]", entry.TaskID)) + " " +
		entry.Message
}
