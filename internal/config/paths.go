// Package config handles settings loading and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectDirName is the name of the per-project nanny directory.
	ProjectDirName = ".nanny"

	// UserConfigDir is the user-level config directory, relative to the home directory.
	UserConfigDir = ".config/nanny"
)

// SettingsFileName is the settings file name at both user and project level.
const SettingsFileName = "config.yaml"

// Environment overrides
const (
	EnvStateFile   = "NANNY_FILE"
	EnvMaxAttempts = "NANNY_MAX_ATTEMPTS"
)

// ProjectDir returns the path to a project's .nanny/ directory.
func ProjectDir(projectPath string) string {
	return filepath.Join(projectPath, ProjectDirName)
}

// ProjectSettingsFile returns the path to a project's .nanny/config.yaml file.
func ProjectSettingsFile(projectPath string) string {
	return filepath.Join(ProjectDir(projectPath), SettingsFileName)
}

// UserSettingsFile returns the path to ~/.config/nanny/config.yaml.
func UserSettingsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, UserConfigDir, SettingsFileName), nil
}
