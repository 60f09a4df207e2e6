package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/watchfire-io/nanny/internal/models"
)

// Loader resolves settings with layered precedence:
// 1. Defaults
// 2. User settings (~/.config/nanny/config.yaml)
// 3. Project settings (.nanny/config.yaml)
// 4. Environment variables (NANNY_FILE, NANNY_MAX_ATTEMPTS)
//
// Command-line flags are applied by the caller on top of the result.
type Loader struct {
	logger      *slog.Logger
	projectPath string
	userFile    string
	lookupEnv   func(string) (string, bool)
}

// NewLoader creates a settings loader rooted at projectPath.
func NewLoader(logger *slog.Logger, projectPath string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	userFile, err := UserSettingsFile()
	if err != nil {
		logger.Debug("No home directory, skipping user settings", slog.String("error", err.Error()))
		userFile = ""
	}
	return &Loader{
		logger:      logger,
		projectPath: projectPath,
		userFile:    userFile,
		lookupEnv:   os.LookupEnv,
	}
}

// Load returns the merged, validated settings.
func (l *Loader) Load() (*models.Settings, error) {
	settings := models.NewSettings()

	if l.userFile != "" {
		if err := l.applyFile(settings, l.userFile); err != nil {
			return nil, err
		}
	}
	if err := l.applyFile(settings, ProjectSettingsFile(l.projectPath)); err != nil {
		return nil, err
	}
	if err := l.applyEnv(settings); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func (l *Loader) applyFile(settings *models.Settings, path string) error {
	if !FileExists(path) {
		l.logger.Debug("Settings file not found", slog.String("path", path))
		return nil
	}
	if err := LoadYAML(path, settings); err != nil {
		return err
	}
	l.logger.Debug("Loaded settings", slog.String("path", path))
	return nil
}

func (l *Loader) applyEnv(settings *models.Settings) error {
	if v, ok := l.lookupEnv(EnvStateFile); ok && v != "" {
		settings.StateFile = v
		l.logger.Debug("State file from environment", slog.String("path", v))
	}
	if v, ok := l.lookupEnv(EnvMaxAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxAttempts, v, err)
		}
		settings.MaxAttempts = n
	}
	return nil
}
