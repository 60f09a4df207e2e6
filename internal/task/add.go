package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/watchfire-io/nanny/internal/models"
)

// CreateOptions contains options for creating a task.
type CreateOptions struct {
	Description string        `json:"description"`
	Check       *models.Check `json:"check,omitempty"`
}

// UnmarshalJSON accepts either a task object or a bare description string.
func (o *CreateOptions) UnmarshalJSON(data []byte) error {
	var description string
	if err := json.Unmarshal(data, &description); err == nil {
		*o = CreateOptions{Description: description}
		return nil
	}
	type Alias CreateOptions
	return json.Unmarshal(data, (*Alias)(o))
}

// Add appends a single pending task to the run.
func (m *Manager) Add(run *models.Run, opts CreateOptions) (*models.Task, error) {
	added, err := m.AddBulk(run, []CreateOptions{opts})
	if err != nil {
		return nil, err
	}
	return added[0], nil
}

// AddBulk appends tasks with consecutive IDs in input order. Every item is
// validated before any task is added.
func (m *Manager) AddBulk(run *models.Run, items []CreateOptions) ([]*models.Task, error) {
	checks := make([]*models.Check, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("%w: task %d: description is required", ErrInvalidInput, i+1)
		}
		check, err := normalizeCheck(item.Check)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d: %v", ErrInvalidInput, i+1, err)
		}
		checks[i] = check
	}

	first := run.NextID()
	added := make([]*models.Task, 0, len(items))
	for i, item := range items {
		t := models.NewTask(first+i, item.Description, checks[i], run.MaxAttempts)
		added = append(added, t)
	}
	run.Tasks = append(run.Tasks, added...)

	m.logger.Debug("Added tasks", slog.Int("count", len(added)), slog.Int("first_id", first))
	return added, nil
}

// ParseBulk reads a JSON array of tasks from r. Items may be description
// strings or {"description", "check"} objects, where check is a command string
// or a check object. The whole stream is consumed before parsing.
func ParseBulk(r io.Reader) ([]CreateOptions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of tasks", ErrInvalidInput)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items := make([]CreateOptions, 0, len(raw))
	for i, msg := range raw {
		item, err := parseItem(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(msg json.RawMessage) (CreateOptions, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || (trimmed[0] != '"' && trimmed[0] != '{') {
		return CreateOptions{}, fmt.Errorf("expected a string or an object, got %s", trimmed)
	}
	var item CreateOptions
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return CreateOptions{}, err
	}
	return item, nil
}

// normalizeCheck drops checks that verify nothing and validates the agent target.
func normalizeCheck(c *models.Check) (*models.Check, error) {
	if c.IsZero() {
		return nil, nil
	}
	if c.Target != nil && (*c.Target < 0 || *c.Target > 100) {
		return nil, fmt.Errorf("check target must be between 0 and 100, got %d", *c.Target)
	}
	check := *c
	return &check, nil
}
