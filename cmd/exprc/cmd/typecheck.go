package cmd

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
	"github.com/spf13/cobra"
)

var typecheckCmd = &cobra.Command{
	Use:   "typecheck FILE",
	Short: "Parse and type-check a source file, printing its top-level type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypecheck,
}

func init() {
	rootCmd.AddCommand(typecheckCmd)
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	root, perr := parser.Parse(source, args[0])
	if perr != nil {
		return reportPipelineError(perr)
	}
	typ, terr := semantic.New(source, args[0]).Check(root)
	if terr != nil {
		return reportPipelineError(terr)
	}
	fmt.Fprintln(cmd.OutOrStdout(), typ.String())
	return nil
}
