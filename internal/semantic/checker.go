// Package semantic implements the static type checker: it walks the AST,
// annotates every node's Type in place, and enforces scope discipline and
// operator resolution against a seeded symbol table.
package semantic

import (
	"github.com/cwbudde/go-exprc/internal/ast"
	"github.com/cwbudde/go-exprc/internal/errors"
	"github.com/cwbudde/go-exprc/internal/scope"
	"github.com/cwbudde/go-exprc/internal/types"
)

// Checker type-checks a single program against a scope stack seeded with
// BuiltinScope.
type Checker struct {
	source, file string
}

// New constructs a Checker; source and file are only used to render
// diagnostics.
func New(source, file string) *Checker {
	return &Checker{source: source, file: file}
}

// Check type-checks root in place, returning its computed type or the
// first error encountered.
func (c *Checker) Check(root ast.Expression) (types.Type, *errors.CompilerError) {
	return c.visit(root, BuiltinScope())
}

func (c *Checker) errAt(n ast.Expression, format string, args ...any) *errors.CompilerError {
	return errors.New(errors.StageType, n.Loc(), c.source, c.file, format, args...)
}

func (c *Checker) visit(expr ast.Expression, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	switch n := expr.(type) {
	case *ast.Literal:
		return c.visitLiteral(n)
	case *ast.Identifier:
		return c.visitIdentifier(n, sc)
	case *ast.UnaryOp:
		return c.visitUnaryOp(n, sc)
	case *ast.BinaryOp:
		return c.visitBinaryOp(n, sc)
	case *ast.IfExpression:
		return c.visitIf(n, sc)
	case *ast.WhileExpression:
		return c.visitWhile(n, sc)
	case *ast.Block:
		return c.visitBlock(n, sc)
	case *ast.VarDeclaration:
		return c.visitVarDeclaration(n, sc)
	case *ast.FunctionCall:
		return c.visitFunctionCall(n, sc)
	default:
		return nil, c.errAt(expr, "unsupported AST node %T", expr)
	}
}

func (c *Checker) visitLiteral(n *ast.Literal) (types.Type, *errors.CompilerError) {
	var t types.Type
	switch n.Value.(type) {
	case bool:
		t = types.Bool
	case int64:
		t = types.Int
	case nil:
		t = types.Unit
	default:
		return nil, c.errAt(n, "literal of unsupported Go type %T", n.Value)
	}
	n.SetType(t)
	return t, nil
}

func (c *Checker) visitIdentifier(n *ast.Identifier, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	t, ok := sc.Get(n.Name)
	if !ok {
		return nil, c.errAt(n, "unknown name %q", n.Name)
	}
	n.SetType(t)
	return t, nil
}

func (c *Checker) visitUnaryOp(n *ast.UnaryOp, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	operandType, err := c.visit(n.Expr, sc)
	if err != nil {
		return nil, err
	}
	sig, ok := c.lookupFun(sc, "unary_"+n.Op)
	if !ok {
		return nil, c.errAt(n, "unknown operator %q", n.Op)
	}
	if !types.Equal(operandType, sig.ArgTypes[0]) {
		return nil, c.errAt(n, "operand of %q must be %s, got %s", n.Op, sig.ArgTypes[0], operandType)
	}
	n.SetType(sig.ReturnType)
	return sig.ReturnType, nil
}

func (c *Checker) visitBinaryOp(n *ast.BinaryOp, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	switch n.Op {
	case "==", "!=":
		return c.visitEquality(n, sc)
	case "=":
		return c.visitAssignment(n, sc)
	default:
		return c.visitOperator(n, sc)
	}
}

func (c *Checker) visitEquality(n *ast.BinaryOp, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	lt, err := c.visit(n.Left, sc)
	if err != nil {
		return nil, err
	}
	rt, err := c.visit(n.Right, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(lt, rt) {
		return nil, c.errAt(n, "operands of %q must have the same type, got %s and %s", n.Op, lt, rt)
	}
	n.SetType(types.Bool)
	return types.Bool, nil
}

func (c *Checker) visitAssignment(n *ast.BinaryOp, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	ident, ok := n.Left.(*ast.Identifier)
	if !ok {
		return nil, c.errAt(n, "assignment target must be an identifier")
	}
	owner := sc.FindScope(ident.Name)
	if owner == nil {
		return nil, c.errAt(ident, "unknown name %q", ident.Name)
	}
	declaredType, _ := owner.GetLocal(ident.Name)
	rt, err := c.visit(n.Right, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(declaredType, rt) {
		return nil, c.errAt(n, "cannot assign %s to %q of type %s", rt, ident.Name, declaredType)
	}
	owner.Set(ident.Name, rt)
	ident.SetType(rt)
	n.SetType(rt)
	return rt, nil
}

func (c *Checker) visitOperator(n *ast.BinaryOp, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	lt, err := c.visit(n.Left, sc)
	if err != nil {
		return nil, err
	}
	rt, err := c.visit(n.Right, sc)
	if err != nil {
		return nil, err
	}
	sig, ok := c.lookupFun(sc, n.Op)
	if !ok {
		return nil, c.errAt(n, "unknown operator %q", n.Op)
	}
	if !types.Equal(lt, sig.ArgTypes[0]) || !types.Equal(rt, sig.ArgTypes[1]) {
		return nil, c.errAt(n, "operator %q expects (%s, %s), got (%s, %s)", n.Op, sig.ArgTypes[0], sig.ArgTypes[1], lt, rt)
	}
	n.SetType(sig.ReturnType)
	return sig.ReturnType, nil
}

func (c *Checker) visitIf(n *ast.IfExpression, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	condT, err := c.visit(n.Cond, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(condT, types.Bool) {
		return nil, c.errAt(n.Cond, "if condition must be Bool, got %s", condT)
	}
	thenT, err := c.visit(n.ThenClause, sc)
	if err != nil {
		return nil, err
	}
	if n.ElseClause == nil {
		n.SetType(types.Unit)
		return types.Unit, nil
	}
	elseT, err := c.visit(n.ElseClause, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(thenT, elseT) {
		return nil, c.errAt(n, "if branches must have the same type, got %s and %s", thenT, elseT)
	}
	n.SetType(thenT)
	return thenT, nil
}

func (c *Checker) visitWhile(n *ast.WhileExpression, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	condT, err := c.visit(n.Cond, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(condT, types.Bool) {
		return nil, c.errAt(n.Cond, "while condition must be Bool, got %s", condT)
	}
	if _, err := c.visit(n.DoClause, sc); err != nil {
		return nil, err
	}
	n.SetType(types.Unit)
	return types.Unit, nil
}

func (c *Checker) visitBlock(n *ast.Block, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	inner := scope.NewEnclosed(sc)
	result := types.Type(types.Unit)
	for _, stmt := range n.Statements {
		t, err := c.visit(stmt, inner)
		if err != nil {
			return nil, err
		}
		result = t
	}
	n.SetType(result)
	return result, nil
}

func (c *Checker) visitVarDeclaration(n *ast.VarDeclaration, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	if _, exists := sc.GetLocal(n.Name); exists {
		return nil, c.errAt(n, "%q is already declared in this scope", n.Name)
	}
	valueType, err := c.visit(n.Value, sc)
	if err != nil {
		return nil, err
	}
	declaredType := valueType
	if n.DeclaredType != "" {
		dt, ok := types.Lookup(n.DeclaredType)
		if !ok {
			return nil, c.errAt(n, "unknown type %q", n.DeclaredType)
		}
		if !types.Equal(dt, valueType) {
			return nil, c.errAt(n, "declared type %s does not match value type %s", dt, valueType)
		}
		declaredType = dt
	}
	sc.Set(n.Name, declaredType)
	n.SetType(types.Unit)
	return types.Unit, nil
}

func (c *Checker) visitFunctionCall(n *ast.FunctionCall, sc *scope.Scope[types.Type]) (types.Type, *errors.CompilerError) {
	sig, ok := c.lookupFun(sc, n.Name)
	if !ok {
		return nil, c.errAt(n, "unknown function %q", n.Name)
	}
	if len(n.Arguments) != len(sig.ArgTypes) {
		return nil, c.errAt(n, "%q expects %d argument(s), got %d", n.Name, len(sig.ArgTypes), len(n.Arguments))
	}
	for i, arg := range n.Arguments {
		at, err := c.visit(arg, sc)
		if err != nil {
			return nil, err
		}
		if !types.Equal(at, sig.ArgTypes[i]) {
			return nil, c.errAt(arg, "argument %d of %q must be %s, got %s", i+1, n.Name, sig.ArgTypes[i], at)
		}
	}
	n.SetType(sig.ReturnType)
	return sig.ReturnType, nil
}

func (c *Checker) lookupFun(sc *scope.Scope[types.Type], name string) (*types.Fun, bool) {
	t, ok := sc.Get(name)
	if !ok {
		return nil, false
	}
	fn, ok := t.(*types.Fun)
	return fn, ok
}
