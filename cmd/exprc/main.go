// Command exprc is the CLI driver over the compiler pipeline: it chooses
// lex/parse/typecheck/ir/compile/run, none of which is part of the CORE the
// rest of this module implements.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-exprc/cmd/exprc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.LastExitCode())
	}
}
