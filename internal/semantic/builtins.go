package semantic

import (
	"github.com/cwbudde/go-exprc/internal/scope"
	"github.com/cwbudde/go-exprc/internal/types"
)

func fn(args []types.Type, ret types.Type) *types.Fun {
	return &types.Fun{ArgTypes: args, ReturnType: ret}
}

// BuiltinScope returns a fresh top-level scope seeded with the arithmetic,
// comparison, logical, unary, and I/O builtin signatures every program
// starts with. The IR generator seeds an IRVar-keyed scope with the same
// names.
func BuiltinScope() *scope.Scope[types.Type] {
	sc := scope.New[types.Type]()
	intInt := []types.Type{types.Int, types.Int}
	boolBool := []types.Type{types.Bool, types.Bool}

	for _, op := range []string{"+", "-", "*", "/", "%"} {
		sc.Set(op, fn(intInt, types.Int))
	}
	for _, op := range []string{"<", "<=", ">", ">="} {
		sc.Set(op, fn(intInt, types.Bool))
	}
	for _, op := range []string{"and", "or"} {
		sc.Set(op, fn(boolBool, types.Bool))
	}
	// "==" and "!=" are not registered here: they are polymorphic over any
	// pair of equal types, not a single Fun signature, and are special-cased
	// directly in the checker rather than resolved through this table.
	sc.Set("unary_-", fn([]types.Type{types.Int}, types.Int))
	sc.Set("unary_not", fn([]types.Type{types.Bool}, types.Bool))
	sc.Set("print_int", fn([]types.Type{types.Int}, types.Unit))
	sc.Set("print_bool", fn([]types.Type{types.Bool}, types.Unit))
	sc.Set("read_int", fn(nil, types.Int))
	return sc
}
