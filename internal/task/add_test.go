package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchfire-io/nanny/internal/models"
)

func intPtr(n int) *int { return &n }

func TestAdd(t *testing.T) {
	m := newTestManager()
	run := models.NewRun("run-1", "goal", 4, testNow)

	tk, err := m.Add(run, CreateOptions{
		Description: "write tests",
		Check:       &models.Check{Command: "go test ./..."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tk.ID)
	assert.Equal(t, models.TaskStatusPending, tk.Status)
	assert.Equal(t, 0, tk.Attempts)
	assert.Equal(t, 4, tk.MaxAttempts)
	require.NotNil(t, tk.Check)
	assert.Equal(t, "go test ./...", tk.Check.Command)
	assert.Empty(t, run.Log)

	second, err := m.Add(run, CreateOptions{Description: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Nil(t, second.Check)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		opts CreateOptions
	}{
		{name: "blank description", opts: CreateOptions{Description: "   "}},
		{name: "target too high", opts: CreateOptions{Description: "a", Check: &models.Check{Agent: "rate", Target: intPtr(101)}}},
		{name: "target negative", opts: CreateOptions{Description: "a", Check: &models.Check{Agent: "rate", Target: intPtr(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			run := models.NewRun("run-1", "goal", 3, testNow)

			_, err := m.Add(run, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, run.Tasks)
		})
	}
}

func TestAddDropsEmptyCheck(t *testing.T) {
	m := newTestManager()
	run := models.NewRun("run-1", "goal", 3, testNow)

	tk, err := m.Add(run, CreateOptions{Description: "a", Check: &models.Check{}})
	require.NoError(t, err)
	assert.Nil(t, tk.Check)
}

func TestParseBulk(t *testing.T) {
	items, err := ParseBulk(strings.NewReader(`["x", {"description":"y","check":"npm test"}, {"description":"z","check":{"agent":"rate docs","target":80}}]`))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, CreateOptions{Description: "x"}, items[0])
	assert.Equal(t, CreateOptions{Description: "y", Check: &models.Check{Command: "npm test"}}, items[1])
	assert.Equal(t, CreateOptions{Description: "z", Check: &models.Check{Agent: "rate docs", Target: intPtr(80)}}, items[2])
}

func TestParseBulkRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "object", input: `{"description":"x"}`},
		{name: "invalid json", input: `["x",`},
		{name: "number item", input: `["x", 3]`},
		{name: "null item", input: `[null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBulk(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAddBulk(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "existing")

	items, err := ParseBulk(strings.NewReader(`["x", {"description":"y","check":"npm test"}]`))
	require.NoError(t, err)

	added, err := m.AddBulk(run, items)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, 2, added[0].ID)
	assert.Equal(t, "x", added[0].Description)
	assert.Equal(t, 3, added[1].ID)
	assert.Equal(t, "npm test", added[1].Check.Command)
	assert.Len(t, run.Tasks, 3)
}

func TestAddBulkIsAllOrNothing(t *testing.T) {
	m := newTestManager()
	run := newTestRun(t, m, 3, "existing")

	_, err := m.AddBulk(run, []CreateOptions{
		{Description: "fine"},
		{Description: ""},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, run.Tasks, 1)
}
