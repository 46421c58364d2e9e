// Package token defines source locations and lexical tokens shared by every
// stage of the compiler pipeline.
package token

import "fmt"

// SourceLocation identifies a single byte position in a named source file.
// Lines are zero-indexed; columns are byte offsets within the line, with a
// tab advancing the column counter by 8 rather than 1.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// Wildcard compares equal to any other SourceLocation via Matches. It exists
// purely for test fixtures that don't want to hard-code exact positions and
// must never appear in compiler output.
var Wildcard = SourceLocation{File: "<wildcard>", Line: -1, Column: -1}

// Matches reports whether l and other should be treated as equal, treating
// Wildcard as a universal match in either position.
func (l SourceLocation) Matches(other SourceLocation) bool {
	if l == Wildcard || other == Wildcard {
		return true
	}
	return l == other
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Kind classifies a Token.
type Kind int

const (
	// INT_LITERAL is a sequence of decimal digits.
	INT_LITERAL Kind = iota
	// BOOL_LITERAL is exactly "true" or "false".
	BOOL_LITERAL
	// IDENTIFIER is any other bare word, including contextual keywords such
	// as if/then/else/while/do/var/and/or/not, whose reserved meaning is
	// decided by the parser rather than the lexer.
	IDENTIFIER
	// OPERATOR is one of the two- or one-character operator symbols.
	OPERATOR
	// PUNCTUATION is one of ( ) { } , ; :
	PUNCTUATION
	// END is a synthetic sentinel the parser produces when reading past the
	// last real token; the tokenizer itself never emits it.
	END
)

func (k Kind) String() string {
	switch k {
	case INT_LITERAL:
		return "int_literal"
	case BOOL_LITERAL:
		return "bool_literal"
	case IDENTIFIER:
		return "identifier"
	case OPERATOR:
		return "operator"
	case PUNCTUATION:
		return "punctuation"
	case END:
		return "end"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit with its source location.
type Token struct {
	Loc  SourceLocation
	Kind Kind
	Text string
}

// Equal reports whether two tokens are the same for test purposes, treating
// Wildcard locations as matching anything.
func (t Token) Equal(other Token) bool {
	return t.Loc.Matches(other.Loc) && t.Kind == other.Kind && t.Text == other.Text
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Loc)
}
