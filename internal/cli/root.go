// Package cli implements the nanny CLI commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/archive"
	"github.com/watchfire-io/nanny/internal/config"
	"github.com/watchfire-io/nanny/internal/models"
	"github.com/watchfire-io/nanny/internal/state"
	"github.com/watchfire-io/nanny/internal/task"
)

// Global flags.
var (
	flagJSON    bool
	flagQuiet   bool
	flagFile    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nanny",
	Short: "Lightweight task tracker for agent loops",
	Long: `Nanny breaks a goal into tasks and hands them out one at a time.

A worker claims a task with 'nanny next', then reports 'nanny done' or
'nanny fail'. Failed attempts go back to pending until the task runs out of
attempts. All state lives in a single JSON file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		newPrinter(rootCmd, nil).Error(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Structured single-line JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "State file path (default from settings: .nanny/state.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(failCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}

// env is what a command needs to act on the current run.
type env struct {
	logger   *slog.Logger
	settings *models.Settings
	store    *state.Store
	manager  *task.Manager
	out      *printer
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func newPrinter(cmd *cobra.Command, settings *models.Settings) *printer {
	width := models.NewSettings().Display.Width
	if settings != nil {
		width = settings.Display.Width
	}
	return &printer{
		json:  flagJSON,
		quiet: flagQuiet,
		width: width,
		out:   cmd.OutOrStdout(),
		err:   cmd.ErrOrStderr(),
	}
}

// loadEnv resolves settings for the working directory and builds the store.
// The --file flag takes precedence over settings and environment.
func loadEnv(cmd *cobra.Command) (*env, error) {
	logger := newLogger(cmd)
	slog.SetDefault(logger)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	settings, err := config.NewLoader(logger, cwd).Load()
	if err != nil {
		return nil, err
	}
	if flagFile != "" {
		settings.StateFile = flagFile
	}

	e := &env{
		logger:   logger,
		settings: settings,
		manager:  task.NewManager(task.WithLogger(logger)),
		out:      newPrinter(cmd, settings),
	}
	e.store = e.newStore()
	return e, nil
}

func (e *env) newStore(opts ...state.Option) *state.Store {
	opts = append([]state.Option{state.WithLogger(e.logger)}, opts...)
	return state.NewStore(e.settings.StateFile, opts...)
}

// openArchive opens the run history when it is enabled in settings.
// It returns nil, nil when archiving is disabled.
func (e *env) openArchive() (*archive.Storage, error) {
	if !e.settings.Archive.Enabled {
		return nil, nil
	}
	a, err := archive.New(e.settings.Archive.Path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Opened archive", slog.String("path", e.settings.Archive.Path))
	return a, nil
}

// fail reports err and marks the command as failed.
func (e *env) fail(err error) error {
	e.out.Error(err)
	return errReported
}
