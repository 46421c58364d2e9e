package irgen

import (
	"github.com/cwbudde/go-exprc/internal/ir"
	"github.com/cwbudde/go-exprc/internal/scope"
)

// builtinVarScope seeds a fresh IRVar scope with the same operator and
// builtin names the type checker's BuiltinScope carries, plus "==" and "!="
// (which the type checker special-cases instead), each bound to an IRVar of
// that literal name so the assembly generator's intrinsics table can
// dispatch on it later.
func builtinVarScope() *scope.Scope[ir.IRVar] {
	sc := scope.New[ir.IRVar]()
	names := []string{
		"+", "-", "*", "/", "%",
		"<", "<=", ">", ">=",
		"==", "!=",
		"and", "or",
		"unary_-", "unary_not",
		"print_int", "print_bool", "read_int",
	}
	for _, name := range names {
		sc.Set(name, ir.IRVar{Name: name})
	}
	return sc
}
