package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cwbudde/go-exprc/internal/codegen"
	"github.com/cwbudde/go-exprc/internal/ir"
	"github.com/cwbudde/go-exprc/internal/irgen"
	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

var (
	compileOutput     string
	compileStdout     bool
	compileListLocals bool
)

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile a source file to x86-64 GNU assembly",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output assembly path (default: from .exprc.yaml's output_template)")
	compileCmd.Flags().BoolVar(&compileStdout, "stdout", false, "emit assembly to stdout instead of writing a file")
	compileCmd.Flags().BoolVar(&compileListLocals, "list-locals", false, "print the stack-slot table for every IR variable, naturally sorted")
}

func runCompile(cmd *cobra.Command, args []string) error {
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
	gen := codegen.New(source, args[0])
	asm, gerr := gen.Generate(prog)
	if gerr != nil {
		return reportPipelineError(gerr)
	}

	if compileStdout {
		fmt.Fprint(cmd.OutOrStdout(), asm)
		if compileListLocals {
			printLocals(cmd.ErrOrStderr(), gen.Locals())
		}
		return nil
	}

	out := compileOutput
	if out == "" {
		out = cfg.OutputPath(args[0])
	}
	if err := os.WriteFile(out, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)

	if len(cfg.RuntimeLibPaths) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "link against: %v\n", cfg.RuntimeLibPaths)
	}

	if compileListLocals {
		printLocals(cmd.OutOrStdout(), gen.Locals())
	}
	return nil
}

func printLocals(w io.Writer, locals *codegen.Locals) {
	names := locals.Order()
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	for _, name := range names {
		fmt.Fprintf(w, "%-8s %s\n", name, locals.Ref(ir.IRVar{Name: name}))
	}
}
