package cmd

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/jsonout"
	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/spf13/cobra"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a source file and print the resulting AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the AST as JSON instead of s-expressions")
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	root, perr := parser.Parse(source, args[0])
	if perr != nil {
		return reportPipelineError(perr)
	}
	if parseJSON {
		fmt.Fprintln(cmd.OutOrStdout(), jsonout.AST(root))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), root.String())
	return nil
}
