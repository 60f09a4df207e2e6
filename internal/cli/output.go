package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"

	"github.com/watchfire-io/nanny/internal/archive"
	"github.com/watchfire-io/nanny/internal/state"
	"github.com/watchfire-io/nanny/internal/task"
)

// Error identifiers reported in JSON output.
const (
	idNotInitialized     = "not_initialized"
	idRunExists          = "run_exists"
	idNotFound           = "not_found"
	idNoRunningTask      = "no_running_task"
	idAllDone            = "all_done"
	idStuck              = "stuck"
	idEmpty              = "empty"
	idNoFailedTasks      = "no_failed_tasks"
	idNotFailed          = "not_failed"
	idInvalidInput       = "invalid_input"
	idMissingDescription = "missing_description"
	idUnsupportedVersion = "unsupported_version"
	idError              = "error"
)

// errMissingDescription is returned by add without a description or --stdin.
var errMissingDescription = errors.New("task description required")

// errReported means the command already wrote its output and only the exit
// status remains to be set.
var errReported = errors.New("reported")

var errorIDs = []struct {
	err error
	id  string
}{
	{state.ErrNotInitialized, idNotInitialized},
	{state.ErrRunExists, idRunExists},
	{state.ErrUnsupportedVersion, idUnsupportedVersion},
	{state.ErrInvalidRun, idInvalidInput},
	{task.ErrNotFound, idNotFound},
	{archive.ErrNotFound, idNotFound},
	{task.ErrNoRunningTask, idNoRunningTask},
	{task.ErrAllDone, idAllDone},
	{task.ErrStuck, idStuck},
	{task.ErrEmpty, idEmpty},
	{task.ErrNoFailedTasks, idNoFailedTasks},
	{task.ErrNotFailed, idNotFailed},
	{task.ErrInvalidInput, idInvalidInput},
	{errMissingDescription, idMissingDescription},
}

// errorID maps an error to its stable identifier.
func errorID(err error) string {
	for _, e := range errorIDs {
		if errors.Is(err, e.err) {
			return e.id
		}
	}
	return idError
}

// hints are printed under human-readable errors.
var hints = map[string][]string{
	idNotInitialized: {"Create a run with " + styleCommand.Render("nanny init <goal>")},
	idRunExists: {
		"Use " + styleCommand.Render("nanny init --force") + " to replace it.",
		"Use " + styleCommand.Render("nanny status") + " to check the current run.",
	},
	idNoRunningTask: {"Start one with " + styleCommand.Render("nanny next")},
	idMissingDescription: {
		"Usage: " + styleCommand.Render("nanny add <description>"),
		"Bulk:  " + styleCommand.Render(`echo '[{"description": "..."}]' | nanny add --stdin`),
	},
}

// commandError is a failed command with extra fields for the JSON document
// and extra lines for human output.
type commandError struct {
	err     error
	fields  map[string]any
	details []string
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }


// printer writes either human-readable or single-line JSON output.
type printer struct {
	json  bool
	quiet bool
	width int
	out   io.Writer
	err   io.Writer
}

// JSON writes v as one line.
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// Println writes a human line unless quiet is set.
func (p *printer) Println(a ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted human output unless quiet is set.
func (p *printer) Printf(format string, a ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format, a...)
}

// Truncate shortens s to the configured display width.
func (p *printer) Truncate(s string) string {
	return ansi.Truncate(s, p.width, "…")
}

// Error reports err in the selected format. Human errors go to stderr and
// are printed even when quiet.
func (p *printer) Error(err error) {
	id := errorID(err)
	var ce *commandError
	errors.As(err, &ce)

	if p.json {
		doc := map[string]any{}
		if ce != nil {
			for k, v := range ce.fields {
				doc[k] = v
			}
		}
		doc["ok"] = false
		doc["error"] = id
		doc["message"] = err.Error()
		_ = p.JSON(doc)
		return
	}

	fmt.Fprintln(p.err, styleError.Render("✗"), err.Error())
	if ce != nil {
		for _, d := range ce.details {
			fmt.Fprintln(p.err, "  "+d)
		}
	}
	if len(hints[id]) > 0 {
		fmt.Fprintln(p.err)
	}
	for _, h := range hints[id] {
		fmt.Fprintln(p.err, "  "+h)
	}
}
