package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/watchfire-io/nanny/internal/tui"
)

var errNotTerminal = errors.New("watch needs an interactive terminal")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of the current run",
	Long: `Open a live dashboard of the current run.

The view reloads whenever another nanny command changes the state file.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	if f, ok := cmd.OutOrStdout().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return e.fail(errNotTerminal)
	}

	if err := tui.Run(e.store, e.logger); err != nil {
		return e.fail(err)
	}
	return nil
}
