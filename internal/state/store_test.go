package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/nanny/internal/models"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".nanny", "state.json")
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewStore(path, opts...)
}

type recordingArchiver struct {
	runs []*models.Run
	err  error
}

func (a *recordingArchiver) Archive(run *models.Run) error {
	if a.err != nil {
		return a.err
	}
	a.runs = append(a.runs, run)
	return nil
}

func TestLoadNotInitialized(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, s.Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	started := testNow.Add(-time.Minute)
	target := 90
	run := models.NewRun("run-1", "build auth", 3, testNow.Add(-time.Hour))
	run.Tasks = []*models.Task{
		{
			ID:          1,
			Description: "write handler",
			Check:       &models.Check{Command: "go test ./..."},
			Status:      models.TaskStatusDone,
			Attempts:    2,
			MaxAttempts: 3,
			Summary:     "added handler",
			LastError:   "compile error",
			StartedAt:   &started,
			FinishedAt:  &testNow,
		},
		{
			ID:          3,
			Description: "score docs",
			Check:       &models.Check{Agent: "rate the docs", Target: &target},
			Status:      models.TaskStatusPending,
			MaxAttempts: 5,
		},
	}
	run.AppendLog(started, 1, models.LogEventStart, "Attempt 1/3: write handler")
	run.AppendLog(testNow, 1, models.LogEventDone, "added handler")

	require.NoError(t, s.Save(run))
	assert.Equal(t, testNow, run.UpdatedAt)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestSaveCreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(models.NewRun("run-1", "goal", 3, testNow)))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown version",
			doc:     `{"version":2,"goal":"g","maxAttempts":3,"tasks":[],"log":[]}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "missing version",
			doc:     `{"goal":"g","maxAttempts":3,"tasks":[],"log":[]}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "two running tasks",
			doc: `{"version":1,"goal":"g","maxAttempts":3,"tasks":[
				{"id":1,"description":"a","status":"running","attempts":1,"maxAttempts":3},
				{"id":2,"description":"b","status":"running","attempts":1,"maxAttempts":3}],"log":[]}`,
			wantErr: ErrInvalidRun,
		},
		{
			name: "duplicate ids",
			doc: `{"version":1,"goal":"g","maxAttempts":3,"tasks":[
				{"id":1,"description":"a","status":"pending","attempts":0,"maxAttempts":3},
				{"id":1,"description":"b","status":"pending","attempts":0,"maxAttempts":3}],"log":[]}`,
			wantErr: ErrInvalidRun,
		},
		{
			name: "unknown status",
			doc: `{"version":1,"goal":"g","maxAttempts":3,"tasks":[
				{"id":1,"description":"a","status":"paused","attempts":0,"maxAttempts":3}],"log":[]}`,
			wantErr: ErrInvalidRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.doc), 0o644))

			_, err := s.Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	doc := `{"version":1,"goal":"g","maxAttempts":3,"tasks":[],"log":[],"extra":true}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra")
}

func TestInitialize(t *testing.T) {
	s := newTestStore(t)

	run, err := s.Initialize("ship it", 4, false)
	require.NoError(t, err)
	assert.Equal(t, models.CurrentVersion, run.Version)
	assert.Equal(t, "ship it", run.Goal)
	assert.Equal(t, 4, run.MaxAttempts)
	assert.NotEmpty(t, run.ID)
	assert.Empty(t, run.Tasks)
	assert.Empty(t, run.Log)
	assert.Equal(t, testNow, run.CreatedAt)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestInitializeExisting(t *testing.T) {
	archiver := &recordingArchiver{}
	s := newTestStore(t, WithArchiver(archiver))

	first, err := s.Initialize("first", 3, false)
	require.NoError(t, err)

	existing, err := s.Initialize("second", 3, false)
	assert.ErrorIs(t, err, ErrRunExists)
	require.NotNil(t, existing)
	assert.Equal(t, "first", existing.Goal)
	assert.Empty(t, archiver.runs)

	replaced, err := s.Initialize("second", 2, true)
	require.NoError(t, err)
	assert.Equal(t, "second", replaced.Goal)
	assert.NotEqual(t, first.ID, replaced.ID)
	require.Len(t, archiver.runs, 1)
	assert.Equal(t, first.ID, archiver.runs[0].ID)
}

func TestInitializeArchiveFailureKeepsRun(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("disk full")}
	s := newTestStore(t, WithArchiver(archiver))

	_, err := s.Initialize("first", 3, false)
	require.NoError(t, err)

	_, err = s.Initialize("second", 3, true)
	require.Error(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "first", loaded.Goal)
}

func TestInitializeValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Initialize("  ", 3, false)
	assert.ErrorIs(t, err, ErrInvalidRun)

	_, err = s.Initialize("goal", 0, false)
	assert.ErrorIs(t, err, ErrInvalidRun)
	assert.False(t, s.Exists())
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Initialize("goal", 3, false)
	require.NoError(t, err)

	_, err = s.Update(func(run *models.Run) error {
		run.Tasks = append(run.Tasks, models.NewTask(1, "a", nil, run.MaxAttempts))
		return nil
	})
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Tasks, 1)
}

func TestUpdateDoesNotSaveOnError(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Initialize("goal", 3, false)
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	boom := errors.New("boom")
	run, err := s.Update(func(run *models.Run) error {
		run.Goal = "mutated"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, run)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
