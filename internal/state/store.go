// Package state persists a run as a single versioned JSON document.
//
// Every operation is whole-document: Load reads the entire file, Save rewrites
// it atomically. There is no locking; two processes writing the same file
// concurrently can lose updates (last writer wins).
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/watchfire-io/nanny/internal/models"
)

// Archiver receives a run that is about to be replaced by Initialize with force.
type Archiver interface {
	Archive(run *models.Run) error
}

// Store provides load/save of the run stored at a single file path.
type Store struct {
	path     string
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	archiver Archiver
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithArchiver hands runs replaced by a forced Initialize to a before the
// state file is removed.
func WithArchiver(a Archiver) Option {
	return func(s *Store) { s.archiver = a }
}

// NewStore creates a store for the state file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a run is stored at the location.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the run from disk.
func (s *Store) Load() (*models.Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotInitialized, s.path)
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	if probe.Version != models.CurrentVersion {
		return nil, fmt.Errorf("%w %d in %s (expected %d)", ErrUnsupportedVersion, probe.Version, s.path, models.CurrentVersion)
	}

	var run models.Run
	if err := decodeStrict(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	if run.Tasks == nil {
		run.Tasks = []*models.Task{}
	}
	if run.Log == nil {
		run.Log = []models.LogEntry{}
	}
	if err := validate(&run); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.logger.Debug("Loaded run",
		slog.String("path", s.path),
		slog.String("run_id", run.ID),
		slog.Int("tasks", len(run.Tasks)),
		slog.Int("log", len(run.Log)))
	return &run, nil
}

// Save stamps UpdatedAt and atomically replaces the state file.
func (s *Store) Save(run *models.Run) error {
	run.UpdatedAt = s.now()

	data, err := marshalDocument(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.path, err)
	}

	s.logger.Debug("Saved run", slog.String("path", s.path), slog.String("run_id", run.ID))
	return nil
}

// Initialize creates a new empty run. When a run already exists and force is
// false, the existing run is returned together with ErrRunExists. With force,
// the existing run is archived (if an archiver is set) and replaced.
func (s *Store) Initialize(goal string, maxAttempts int, force bool) (*models.Run, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal is required", ErrInvalidRun)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidRun, maxAttempts)
	}

	if s.Exists() {
		if !force {
			existing, err := s.Load()
			if err != nil {
				return nil, err
			}
			return existing, ErrRunExists
		}
		if err := s.discard(); err != nil {
			return nil, err
		}
	}

	run := models.NewRun(s.newID(), goal, maxAttempts, s.now())
	if err := s.Save(run); err != nil {
		return nil, err
	}

	s.logger.Debug("Initialized run", slog.String("run_id", run.ID), slog.Int("max_attempts", maxAttempts))
	return run, nil
}

// discard archives the current run when possible and removes the state file.
// An unreadable run cannot be archived but is still replaced.
func (s *Store) discard() error {
	if s.archiver != nil {
		prior, err := s.Load()
		if err != nil {
			s.logger.Warn("Replacing unreadable run without archiving", slog.String("error", err.Error()))
		} else {
			if err := s.archiver.Archive(prior); err != nil {
				return fmt.Errorf("failed to archive run %s: %w", prior.ID, err)
			}
			s.logger.Debug("Archived run", slog.String("run_id", prior.ID))
		}
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file %s: %w", s.path, err)
	}
	return nil
}

// Update loads the run, applies fn, and saves the result only if fn returns
// nil. The loaded run is returned either way so callers can report on it.
func (s *Store) Update(fn func(run *models.Run) error) (*models.Run, error) {
	run, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(run); err != nil {
		return run, err
	}
	if err := s.Save(run); err != nil {
		return run, err
	}
	return run, nil
}

// validate checks the structural integrity of a decoded run.
func validate(run *models.Run) error {
	if run.MaxAttempts < 1 {
		return fmt.Errorf("%w: maxAttempts must be at least 1", ErrInvalidRun)
	}

	seen := make(map[int]bool, len(run.Tasks))
	running := 0
	for i, t := range run.Tasks {
		if t == nil {
			return fmt.Errorf("%w: task at index %d is null", ErrInvalidRun, i)
		}
		if t.ID < 1 {
			return fmt.Errorf("%w: task at index %d has invalid id %d", ErrInvalidRun, i, t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalidRun, t.ID)
		}
		seen[t.ID] = true
		if !t.Status.Valid() {
			return fmt.Errorf("%w: task %d has unknown status %q", ErrInvalidRun, t.ID, t.Status)
		}
		if t.Status == models.TaskStatusRunning {
			running++
		}
	}
	if running > 1 {
		return fmt.Errorf("%w: %d tasks are running, at most one is allowed", ErrInvalidRun, running)
	}
	return nil
}
