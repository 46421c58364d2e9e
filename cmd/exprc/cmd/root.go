package cmd

import (
	"github.com/cwbudde/go-exprc/internal/config"
	cerrors "github.com/cwbudde/go-exprc/internal/errors"
	"github.com/spf13/cobra"
)

var (
	// Version is overwritten by build flags.
	Version = "0.1.0-dev"

	configPath string
	cfg        *config.Config
	verbose    bool

	lastExitCode = 1
)

var rootCmd = &cobra.Command{
	Use:     "exprc",
	Short:   "Compiler and reference interpreter for the expression language",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.Discover(".")
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to .exprc.yaml (default: discovered in the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "accepted; no subcommand prints anything extra when it is set")
}

// Execute runs the CLI; main reports LastExitCode() on error.
func Execute() error {
	return rootCmd.Execute()
}

// LastExitCode returns the process exit code the last failing pipeline
// stage requested, so a lex error and a codegen error exit differently.
func LastExitCode() int { return lastExitCode }

// recordStage remembers the exit code a CompilerError's stage implies, for
// main to read after Execute returns an error.
func recordStage(err *cerrors.CompilerError) {
	lastExitCode = cerrors.ExitCode(err.Stage)
}
