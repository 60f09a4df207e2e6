package tui

import "github.com/watchfire-io/nanny/internal/models"

// RunLoadedMsg carries a freshly loaded run.
type RunLoadedMsg struct {
	Run *models.Run
}

// StateChangedMsg signals the watcher saw the state file change.
type StateChangedMsg struct{}

// StateRemovedMsg signals the state file was removed or replaced.
type StateRemovedMsg struct{}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}
