package models

import "fmt"

// ArchiveConfig holds settings for the history of replaced runs.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite file, relative paths resolve against the working directory
}

// DisplayConfig holds settings for human-readable output.
type DisplayConfig struct {
	Width int `yaml:"width"` // Truncation width for summaries and errors
}

// Settings represents nanny settings.
// This corresponds to ~/.config/nanny/config.yaml and .nanny/config.yaml.
type Settings struct {
	Version     int           `yaml:"version"`
	StateFile   string        `yaml:"state_file"`
	MaxAttempts int           `yaml:"max_attempts"` // Default for `nanny init`
	LogLines    int           `yaml:"log_lines"`    // Default for `nanny log -n`
	Archive     ArchiveConfig `yaml:"archive"`
	Display     DisplayConfig `yaml:"display"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:     1,
		StateFile:   ".nanny/state.json",
		MaxAttempts: 3,
		LogLines:    20,
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    ".nanny/history.db",
		},
		Display: DisplayConfig{
			Width: 120,
		},
	}
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.StateFile == "" {
		return fmt.Errorf("state_file is required")
	}
	if s.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", s.MaxAttempts)
	}
	if s.LogLines < 0 {
		return fmt.Errorf("log_lines must not be negative, got %d", s.LogLines)
	}
	if s.Archive.Enabled && s.Archive.Path == "" {
		return fmt.Errorf("archive.path is required when archive is enabled")
	}
	if s.Display.Width < 10 {
		return fmt.Errorf("display.width must be at least 10, got %d", s.Display.Width)
	}
	return nil
}
