package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-exprc/internal/interp"
	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
	"github.com/spf13/cobra"
)

var runTrace bool

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Interpret a source file using the reference semantics",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print the top-level value to stderr in addition to executing it")
}

func runRun(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	root, perr := parser.Parse(source, args[0])
	if perr != nil {
		return reportPipelineError(perr)
	}
	if _, terr := semantic.New(source, args[0]).Check(root); terr != nil {
		return reportPipelineError(terr)
	}

	it := interp.New(source, args[0])
	stdin := os.Stdin
	if cfg.DefaultStdin != "" {
		if f, err := os.Open(cfg.DefaultStdin); err == nil {
			defer f.Close()
			it = it.WithIO(f, os.Stdout)
		}
	} else {
		it = it.WithIO(stdin, os.Stdout)
	}

	value, rerr := it.Run(root)
	if rerr != nil {
		return reportPipelineError(rerr)
	}
	if runTrace {
		fmt.Fprintf(os.Stderr, "[trace] top-level value: %v\n", value)
	}
	return nil
}
