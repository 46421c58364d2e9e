package cmd

import (
	"fmt"
	"os"

	cerrors "github.com/cwbudde/go-exprc/internal/errors"
)

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// reportPipelineError prints a located diagnostic, records the exit code
// its stage implies, and returns a plain error for cobra to propagate.
func reportPipelineError(err *cerrors.CompilerError) error {
	recordStage(err)
	return fmt.Errorf("%s", err.Format(true))
}
