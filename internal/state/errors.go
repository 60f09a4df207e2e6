package state

import "errors"

var (
	// ErrNotInitialized is returned when no run exists at the store location.
	ErrNotInitialized = errors.New("no run found")

	// ErrRunExists is returned by Initialize when a run already exists and force is not set.
	ErrRunExists = errors.New("a run already exists")

	// ErrUnsupportedVersion is returned when the state document has an unknown version.
	ErrUnsupportedVersion = errors.New("unsupported state version")

	// ErrInvalidRun is returned when a run fails validation on load or initialize.
	ErrInvalidRun = errors.New("invalid run")
)
