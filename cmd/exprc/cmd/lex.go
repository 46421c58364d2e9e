package cmd

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex FILE",
	Short: "Tokenize a source file and print the resulting tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	tokens, lerr := lexer.New(source, lexer.WithFile(args[0])).Lex()
	if lerr != nil {
		return reportPipelineError(lerr)
	}
	for _, tok := range tokens {
		fmt.Fprintln(cmd.OutOrStdout(), tok.String())
	}
	return nil
}
