// Package cli implements the funfair command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/funfair/internal/scene"
	"github.com/mesh-intelligence/funfair/pkg/funfair"
)

// Exit codes.
const (
	exitSuccess     = 0
	exitUserError   = 1
	exitSysError    = 2
	exitConfigError = 3
)

// rootFlags holds global and play flag values for one command tree.
type rootFlags struct {
	configDir  string
	saveDir    string
	dataDir    string
	jsonMode   bool
	startScene string
	skipTitle  bool
}

// app carries state shared by the commands of one root command.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "funfair" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "funfair",
		Short:   "A family funfair of winter minigames",
		Long:    "Funfair is a text-mode family game: pick a character, play minigames,\nand chase high scores. Progress is saved locally.",
		Version: funfair.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.saveDir, "save-dir", "", "save directory (default: config directory)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory for score history (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newPlayCmd(a))
	root.AddCommand(newSaveCmd(a))
	root.AddCommand(newScoresCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	// A missing .env is normal.
	_ = godotenv.Load()

	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "funfair:", err)
	}
	os.Exit(exitCode(err))
}

// sysError marks an error caused by the environment rather than the input.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit code. Scene graph
// configuration errors get their own code.
func exitCode(err error) int {
	var cerr *scene.ConfigError
	var serr *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &cerr):
		return exitConfigError
	case errors.As(err, &serr):
		return exitSysError
	default:
		return exitUserError
	}
}
