package cmd

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/irgen"
	"github.com/cwbudde/go-exprc/internal/jsonout"
	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	irJSON  bool
	irQuery string
)

var irCmd = &cobra.Command{
	Use:   "ir FILE",
	Short: "Lower a source file to linear IR and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runIR,
}

func init() {
	rootCmd.AddCommand(irCmd)
	irCmd.Flags().BoolVar(&irJSON, "json", false, "print the IR as a JSON array instead of one instruction per line")
	irCmd.Flags().StringVar(&irQuery, "query", "", "gjson path to extract a single field from the JSON IR dump (implies --json)")
}

func runIR(cmd *cobra.Command, args []string) error {
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
	prog, ierr := irgen.New(source, args[0]).Generate(root)
	if ierr != nil {
		return reportPipelineError(ierr)
	}

	doc := jsonout.IR(prog)
	if irQuery != "" {
		v, ok := jsonout.Query(doc, irQuery)
		if !ok {
			return fmt.Errorf("query %q matched nothing", irQuery)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}
	if irJSON {
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	}
	for _, instr := range prog.Instructions {
		fmt.Fprintln(cmd.OutOrStdout(), instr.String())
	}
	return nil
}
