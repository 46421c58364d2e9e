// Package errors implements the compiler's single diagnostic type. Every
// stage — lexer, parser, type checker, IR generator, assembly generator —
// reports failures as a *CompilerError tagged with the stage it came from,
// rather than five distinct Go error types; a single formatter then renders
// a source-line-and-caret diagnostic the same way regardless of origin.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-exprc/internal/token"
)

// Stage names the pipeline phase that raised a CompilerError.
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageType    Stage = "type"
	StageIR      Stage = "ir"
	StageCodegen Stage = "codegen"
	// StageRuntime tags errors raised by the reference interpreter, a
	// collaborator rather than a CORE pipeline stage, but one that reuses
	// the same diagnostic type and formatter as everything else.
	StageRuntime Stage = "runtime"
)

// CompilerError is a single, fatal, location-annotated diagnostic.
type CompilerError struct {
	Stage   Stage
	Message string
	Pos     token.SourceLocation
	Source  string
	File    string
}

// New constructs a CompilerError for the given stage.
func New(stage Stage, pos token.SourceLocation, source, file, format string, args ...any) *CompilerError {
	return &CompilerError{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Source:  source,
		File:    file,
	}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders a header line, the offending source line, and a caret
// pointing at the column, optionally with ANSI color.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	file := e.File
	if file == "" {
		file = e.Pos.File
	}
	if file != "" {
		fmt.Fprintf(&sb, "%s error in %s:%d:%d: %s\n", e.Stage, file, e.Pos.Line+1, e.Pos.Column+1, e.Message)
	} else {
		fmt.Fprintf(&sb, "%s error at %d:%d: %s\n", e.Stage, e.Pos.Line+1, e.Pos.Column+1, e.Message)
	}
	line := sourceLine(e.Source, e.Pos.Line)
	if line == "" {
		return sb.String()
	}
	prefix := fmt.Sprintf("%4d | ", e.Pos.Line+1)
	fmt.Fprintf(&sb, "%s%s\n", prefix, line)
	caret := strings.Repeat(" ", len(prefix)+e.Pos.Column) + "^"
	if color {
		caret = "\033[1;31m" + caret + "\033[0m"
	}
	sb.WriteString(caret)
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return lines[line]
}

// FormatErrors renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	for i, e := range errs {
		fmt.Fprintf(&sb, "[error %d of %d]\n%s\n", i+1, len(errs), e.Format(color))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ExitCode maps a Stage to the process exit code the CLI should use, so a
// caller can distinguish a lex/parse failure from a type or codegen failure
// by exit status without parsing the message.
func ExitCode(stage Stage) int {
	switch stage {
	case StageLex:
		return 2
	case StageParse:
		return 3
	case StageType:
		return 4
	case StageIR:
		return 5
	case StageCodegen:
		return 6
	case StageRuntime:
		return 7
	default:
		return 1
	}
}
