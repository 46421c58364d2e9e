// Package types defines the closed algebraic family of types used by the
// static type checker and the IR generator: Int, Bool, Unit, and Fun.
package types

import "strings"

// Type is the common interface of every member of the closed type family.
type Type interface {
	String() string
	isType()
}

// Basic is a nullary type: Int, Bool, or Unit.
type Basic struct {
	name string
}

func (b *Basic) String() string { return b.name }
func (b *Basic) isType()        {}

var (
	// Int is the type of 64-bit two's-complement integers.
	Int = &Basic{name: "Int"}
	// Bool is the type of booleans.
	Bool = &Basic{name: "Bool"}
	// Unit is the sole value type of statements without a meaningful value.
	Unit = &Basic{name: "Unit"}
)

// basicByName resolves a declared type annotation's textual name to a known
// basic type, as used by var declarations (`var x: Int = ...`).
func basicByName(name string) (Type, bool) {
	switch name {
	case "Int":
		return Int, true
	case "Bool":
		return Bool, true
	case "Unit":
		return Unit, true
	default:
		return nil, false
	}
}

// Lookup resolves a textual type name to a Type, as used by VarDeclaration's
// optional declared-type annotation.
func Lookup(name string) (Type, bool) {
	return basicByName(name)
}

// Fun is the type of a builtin or operator overload: a fixed argument-type
// list and a return type. Fun is never denotable in source; it only labels
// symbol-table entries for operators and builtins.
type Fun struct {
	ArgTypes   []Type
	ReturnType Type
}

func (f *Fun) isType() {}
func (f *Fun) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, a := range f.ArgTypes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(") => ")
	sb.WriteString(f.ReturnType.String())
	return sb.String()
}

// Equal reports whether a and b are the same type. Basic types compare by
// identity (Int/Bool/Unit are singletons); Fun types compare structurally.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	fa, aok := a.(*Fun)
	fb, bok := b.(*Fun)
	if aok != bok {
		return false
	}
	if !aok {
		return false
	}
	if len(fa.ArgTypes) != len(fb.ArgTypes) {
		return false
	}
	for i := range fa.ArgTypes {
		if !Equal(fa.ArgTypes[i], fb.ArgTypes[i]) {
			return false
		}
	}
	return Equal(fa.ReturnType, fb.ReturnType)
}
