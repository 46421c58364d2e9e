// Package interp implements the reference tree-walking interpreter: the
// semantics every compiled program is required to match. It is a
// collaborator, not part of the CORE pipeline, and is used both by the
// `run` CLI subcommand and by the codegen-vs-interpreter comparison tests.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-exprc/internal/ast"
	"github.com/cwbudde/go-exprc/internal/errors"
	"github.com/cwbudde/go-exprc/internal/scope"
)

// Value is whatever a variable or expression holds at runtime: int64, bool,
// nil (the unit value), or a builtin.
type Value any

// builtin is a first-class native closure bound under an operator or
// runtime-function name, the interpreter's equivalent of the assembly
// generator's intrinsics table.
type builtin func(args []Value) (Value, error)

// Interpreter walks an already-parsed AST; it performs no type checking of
// its own and assumes the program has already passed the type checker.
type Interpreter struct {
	source, file string
	in           *bufio.Reader
	out          io.Writer
}

// New creates an Interpreter reading read_int input from stdin and writing
// print_int/print_bool output to stdout.
func New(source, file string) *Interpreter {
	return &Interpreter{source: source, file: file, in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// WithIO overrides the interpreter's input and output streams, for tests and
// for embedding read_int input programmatically.
func (it *Interpreter) WithIO(in io.Reader, out io.Writer) *Interpreter {
	it.in = bufio.NewReader(in)
	it.out = out
	return it
}

func (it *Interpreter) runtimeErrorf(n ast.Expression, format string, args ...any) *errors.CompilerError {
	return errors.New(errors.StageRuntime, n.Loc(), it.source, it.file, format, args...)
}

// Run evaluates root under a fresh top-level scope seeded with the builtin
// operators and runtime functions, and returns its value.
func (it *Interpreter) Run(root ast.Expression) (Value, *errors.CompilerError) {
	sc := scope.New[Value]()
	it.seedBuiltins(sc)
	return it.eval(root, sc)
}

func (it *Interpreter) seedBuiltins(sc *scope.Scope[Value]) {
	wrap2 := func(f func(a, b Value) (Value, error)) builtin {
		return func(args []Value) (Value, error) { return f(args[0], args[1]) }
	}
	wrap1 := func(f func(a Value) (Value, error)) builtin {
		return func(args []Value) (Value, error) { return f(args[0]) }
	}
	ok := func(v Value) (Value, error) { return v, nil }

	sc.Set("+", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) + b.(int64)) }))
	sc.Set("-", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) - b.(int64)) }))
	sc.Set("*", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) * b.(int64)) }))
	sc.Set("/", wrap2(func(a, b Value) (Value, error) {
		bi := b.(int64)
		if bi == 0 {
			return nil, fmt.Errorf("can't divide by zero")
		}
		return ok(a.(int64) / bi)
	}))
	sc.Set("%", wrap2(func(a, b Value) (Value, error) {
		bi := b.(int64)
		if bi == 0 {
			return nil, fmt.Errorf("can't divide by zero")
		}
		return ok(a.(int64) % bi)
	}))
	sc.Set("==", wrap2(func(a, b Value) (Value, error) { return ok(a == b) }))
	sc.Set("!=", wrap2(func(a, b Value) (Value, error) { return ok(a != b) }))
	sc.Set("<", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) < b.(int64)) }))
	sc.Set("<=", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) <= b.(int64)) }))
	sc.Set(">", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) > b.(int64)) }))
	sc.Set(">=", wrap2(func(a, b Value) (Value, error) { return ok(a.(int64) >= b.(int64)) }))
	sc.Set("unary_-", wrap1(func(a Value) (Value, error) { return ok(-a.(int64)) }))
	sc.Set("unary_not", wrap1(func(a Value) (Value, error) { return ok(!a.(bool)) }))

	sc.Set("print_int", wrap1(func(a Value) (Value, error) {
		fmt.Fprintln(it.out, a.(int64))
		return nil, nil
	}))
	sc.Set("print_bool", wrap1(func(a Value) (Value, error) {
		if a.(bool) {
			fmt.Fprintln(it.out, "true")
		} else {
			fmt.Fprintln(it.out, "false")
		}
		return nil, nil
	}))
	sc.Set("read_int", builtin(func(args []Value) (Value, error) {
		line, err := it.in.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("read_int: %w", err)
		}
		var v int64
		if _, err := fmt.Sscanf(line, "%d", &v); err != nil {
			return nil, fmt.Errorf("read_int: %w", err)
		}
		return v, nil
	}))
}

func (it *Interpreter) eval(n ast.Expression, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	switch n := n.(type) {
	case *ast.Literal:
		return Value(n.Value), nil
	case *ast.Identifier:
		v, ok := sc.Get(n.Name)
		if !ok {
			return nil, it.runtimeErrorf(n, "undefined name %q", n.Name)
		}
		return v, nil
	case *ast.UnaryOp:
		return it.evalUnary(n, sc)
	case *ast.BinaryOp:
		return it.evalBinary(n, sc)
	case *ast.IfExpression:
		return it.evalIf(n, sc)
	case *ast.WhileExpression:
		return it.evalWhile(n, sc)
	case *ast.Block:
		return it.evalBlock(n, sc)
	case *ast.VarDeclaration:
		return it.evalVarDeclaration(n, sc)
	case *ast.FunctionCall:
		return it.evalFunctionCall(n, sc)
	default:
		return nil, it.runtimeErrorf(n, "unhandled AST node %T", n)
	}
}

func (it *Interpreter) evalUnary(n *ast.UnaryOp, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	v, err := it.eval(n.Expr, sc)
	if err != nil {
		return nil, err
	}
	fn, _ := sc.Get("unary_" + n.Op)
	result, callErr := fn.(builtin)([]Value{v})
	if callErr != nil {
		return nil, it.runtimeErrorf(n, "%s", callErr)
	}
	return result, nil
}

func (it *Interpreter) evalBinary(n *ast.BinaryOp, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	switch n.Op {
	case "=":
		return it.evalAssignment(n, sc)
	case "and":
		return it.evalShortCircuit(n, sc, true)
	case "or":
		return it.evalShortCircuit(n, sc, false)
	}
	left, err := it.eval(n.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(n.Right, sc)
	if err != nil {
		return nil, err
	}
	fn, ok := sc.Get(n.Op)
	if !ok {
		return nil, it.runtimeErrorf(n, "undefined operator %q", n.Op)
	}
	result, callErr := fn.(builtin)([]Value{left, right})
	if callErr != nil {
		return nil, it.runtimeErrorf(n, "%s", callErr)
	}
	return result, nil
}

// evalShortCircuit implements and/or without evaluating the right operand
// when the left one already decides the result.
func (it *Interpreter) evalShortCircuit(n *ast.BinaryOp, sc *scope.Scope[Value], isAnd bool) (Value, *errors.CompilerError) {
	left, err := it.eval(n.Left, sc)
	if err != nil {
		return nil, err
	}
	lb := left.(bool)
	if isAnd && !lb {
		return false, nil
	}
	if !isAnd && lb {
		return true, nil
	}
	return it.eval(n.Right, sc)
}

// evalAssignment mutates the identifier in the scope frame that declared it,
// not a fresh local, and yields the assigned value.
func (it *Interpreter) evalAssignment(n *ast.BinaryOp, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	ident, ok := n.Left.(*ast.Identifier)
	if !ok {
		return nil, it.runtimeErrorf(n, "left-hand side of assignment must be a name")
	}
	v, err := it.eval(n.Right, sc)
	if err != nil {
		return nil, err
	}
	owner := sc.FindScope(ident.Name)
	if owner == nil {
		return nil, it.runtimeErrorf(n, "undefined name %q", ident.Name)
	}
	owner.Set(ident.Name, v)
	return v, nil
}

func (it *Interpreter) evalIf(n *ast.IfExpression, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	cond, err := it.eval(n.Cond, sc)
	if err != nil {
		return nil, err
	}
	if cond.(bool) {
		return it.eval(n.ThenClause, sc)
	}
	if n.ElseClause != nil {
		return it.eval(n.ElseClause, sc)
	}
	return nil, nil
}

func (it *Interpreter) evalWhile(n *ast.WhileExpression, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	for {
		cond, err := it.eval(n.Cond, sc)
		if err != nil {
			return nil, err
		}
		if !cond.(bool) {
			return nil, nil
		}
		if _, err := it.eval(n.DoClause, sc); err != nil {
			return nil, err
		}
	}
}

func (it *Interpreter) evalBlock(n *ast.Block, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	inner := scope.NewEnclosed(sc)
	var result Value
	for _, stmt := range n.Statements {
		v, err := it.eval(stmt, inner)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (it *Interpreter) evalVarDeclaration(n *ast.VarDeclaration, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	v, err := it.eval(n.Value, sc)
	if err != nil {
		return nil, err
	}
	sc.Set(n.Name, v)
	return nil, nil
}

func (it *Interpreter) evalFunctionCall(n *ast.FunctionCall, sc *scope.Scope[Value]) (Value, *errors.CompilerError) {
	fnVal, ok := sc.Get(n.Name)
	if !ok {
		return nil, it.runtimeErrorf(n, "undefined name %q", n.Name)
	}
	fn, ok := fnVal.(builtin)
	if !ok {
		return nil, it.runtimeErrorf(n, "%q is not callable", n.Name)
	}
	args := make([]Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := it.eval(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	result, callErr := fn(args)
	if callErr != nil {
		return nil, it.runtimeErrorf(n, "%s", callErr)
	}
	return result, nil
}
