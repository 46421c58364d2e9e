// Package irgen lowers a type-checked AST into the linear IR: it owns the
// fresh-name counters for temporaries and labels, a scope stack of IRVar
// bindings seeded with the same builtin names the type checker uses, and a
// side table from IRVar to its static Type.
package irgen

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/ast"
	"github.com/cwbudde/go-exprc/internal/errors"
	"github.com/cwbudde/go-exprc/internal/ir"
	"github.com/cwbudde/go-exprc/internal/scope"
	"github.com/cwbudde/go-exprc/internal/types"
)

// Generator lowers one already type-checked program to ir.Instructions.
type Generator struct {
	source, file string
	instrs       []ir.Instruction
	types        ir.TypeTable
	tempCount    int
	labelCount   int
}

// New constructs a Generator; source and file are only used for diagnostics.
func New(source, file string) *Generator {
	return &Generator{source: source, file: file, types: ir.NewTypeTable()}
}

// Generate lowers root (whose nodes must already carry computed types from
// the type checker) into a full ir.Program, appending the final
// print_int/print_bool call the spec requires so the compiled program's
// observable output matches the interpreter's.
func (g *Generator) Generate(root ast.Expression) (*ir.Program, *errors.CompilerError) {
	sc := builtinVarScope()
	rootVar, err := g.gen(root, sc)
	if err != nil {
		return nil, err
	}
	switch {
	case types.Equal(root.Type(), types.Int):
		g.emit(ir.NewCall(root.Loc(), ir.IRVar{Name: "print_int"}, []ir.IRVar{rootVar}, ir.Unit))
	case types.Equal(root.Type(), types.Bool):
		g.emit(ir.NewCall(root.Loc(), ir.IRVar{Name: "print_bool"}, []ir.IRVar{rootVar}, ir.Unit))
	}
	return &ir.Program{Instructions: g.instrs, Types: g.types}, nil
}

func (g *Generator) emit(instr ir.Instruction) { g.instrs = append(g.instrs, instr) }

func (g *Generator) freshTemp(typ types.Type) ir.IRVar {
	g.tempCount++
	v := ir.IRVar{Name: fmt.Sprintf("x%d", g.tempCount)}
	g.types.Set(v, typ)
	return v
}

func (g *Generator) freshLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}

func (g *Generator) irErrorf(n ast.Expression, format string, args ...any) *errors.CompilerError {
	return errors.New(errors.StageIR, n.Loc(), g.source, g.file, format, args...)
}

func (g *Generator) gen(expr ast.Expression, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	switch n := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(n)
	case *ast.Identifier:
		v, ok := sc.Get(n.Name)
		if !ok {
			return ir.IRVar{}, g.irErrorf(n, "unbound identifier %q reached IR generation", n.Name)
		}
		return v, nil
	case *ast.UnaryOp:
		return g.genUnaryOp(n, sc)
	case *ast.BinaryOp:
		return g.genBinaryOp(n, sc)
	case *ast.IfExpression:
		return g.genIf(n, sc)
	case *ast.WhileExpression:
		return g.genWhile(n, sc)
	case *ast.VarDeclaration:
		return g.genVarDeclaration(n, sc)
	case *ast.Block:
		return g.genBlock(n, sc)
	case *ast.FunctionCall:
		return g.genFunctionCall(n, sc)
	default:
		return ir.IRVar{}, g.irErrorf(expr, "unsupported AST node %T reached IR generation", expr)
	}
}

func (g *Generator) genLiteral(n *ast.Literal) (ir.IRVar, *errors.CompilerError) {
	switch v := n.Value.(type) {
	case int64:
		d := g.freshTemp(types.Int)
		g.emit(ir.NewLoadIntConstant(n.Loc(), v, d))
		return d, nil
	case bool:
		d := g.freshTemp(types.Bool)
		g.emit(ir.NewLoadBoolConstant(n.Loc(), v, d))
		return d, nil
	case nil:
		return ir.Unit, nil
	default:
		return ir.IRVar{}, g.irErrorf(n, "literal of unsupported Go type %T reached IR generation", n.Value)
	}
}

func (g *Generator) genUnaryOp(n *ast.UnaryOp, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	operand, err := g.gen(n.Expr, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	opVar, ok := sc.Get("unary_" + n.Op)
	if !ok {
		return ir.IRVar{}, g.irErrorf(n, "unbound operator %q reached IR generation", n.Op)
	}
	dest := g.freshTemp(n.Type())
	g.emit(ir.NewCall(n.Loc(), opVar, []ir.IRVar{operand}, dest))
	return dest, nil
}

func (g *Generator) genBinaryOp(n *ast.BinaryOp, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	switch n.Op {
	case "=":
		return g.genAssignment(n, sc)
	case "and":
		return g.genShortCircuit(n, sc, true)
	case "or":
		return g.genShortCircuit(n, sc, false)
	default:
		left, err := g.gen(n.Left, sc)
		if err != nil {
			return ir.IRVar{}, err
		}
		right, err := g.gen(n.Right, sc)
		if err != nil {
			return ir.IRVar{}, err
		}
		opVar, ok := sc.Get(n.Op)
		if !ok {
			return ir.IRVar{}, g.irErrorf(n, "unbound operator %q reached IR generation", n.Op)
		}
		dest := g.freshTemp(n.Type())
		g.emit(ir.NewCall(n.Loc(), opVar, []ir.IRVar{left, right}, dest))
		return dest, nil
	}
}

func (g *Generator) genAssignment(n *ast.BinaryOp, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	ident, ok := n.Left.(*ast.Identifier)
	if !ok {
		return ir.IRVar{}, g.irErrorf(n, "assignment target is not an identifier")
	}
	right, err := g.gen(n.Right, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	leftVar, ok := sc.Get(ident.Name)
	if !ok {
		return ir.IRVar{}, g.irErrorf(ident, "unbound identifier %q reached IR generation", ident.Name)
	}
	g.emit(ir.NewCopy(n.Loc(), right, leftVar))
	return leftVar, nil
}

// genShortCircuit lowers "and" (isAnd true) or "or" (isAnd false) using the
// three-label branching pattern from the spec: evaluate the left operand,
// branch on it, and only evaluate the right operand on the path where it
// can still change the result.
func (g *Generator) genShortCircuit(n *ast.BinaryOp, sc *scope.Scope[ir.IRVar], isAnd bool) (ir.IRVar, *errors.CompilerError) {
	left, err := g.gen(n.Left, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	result := g.freshTemp(types.Bool)
	lRight, lSkip, lEnd := g.freshLabel(), g.freshLabel(), g.freshLabel()
	if isAnd {
		g.emit(ir.NewCondJump(n.Loc(), left, lRight, lSkip))
	} else {
		g.emit(ir.NewCondJump(n.Loc(), left, lSkip, lRight))
	}
	g.emit(ir.NewLabel(n.Loc(), lRight))
	right, err := g.gen(n.Right, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	g.emit(ir.NewCopy(n.Loc(), right, result))
	g.emit(ir.NewJump(n.Loc(), lEnd))
	g.emit(ir.NewLabel(n.Loc(), lSkip))
	g.emit(ir.NewLoadBoolConstant(n.Loc(), !isAnd, result))
	g.emit(ir.NewJump(n.Loc(), lEnd))
	g.emit(ir.NewLabel(n.Loc(), lEnd))
	return result, nil
}

func (g *Generator) genIf(n *ast.IfExpression, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	cond, err := g.gen(n.Cond, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	if n.ElseClause == nil {
		lThen, lEnd := g.freshLabel(), g.freshLabel()
		g.emit(ir.NewCondJump(n.Loc(), cond, lThen, lEnd))
		g.emit(ir.NewLabel(n.Loc(), lThen))
		if _, err := g.gen(n.ThenClause, sc); err != nil {
			return ir.IRVar{}, err
		}
		g.emit(ir.NewLabel(n.Loc(), lEnd))
		return ir.Unit, nil
	}
	result := g.freshTemp(n.Type())
	lThen, lElse, lEnd := g.freshLabel(), g.freshLabel(), g.freshLabel()
	g.emit(ir.NewCondJump(n.Loc(), cond, lThen, lElse))
	g.emit(ir.NewLabel(n.Loc(), lThen))
	thenVar, err := g.gen(n.ThenClause, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	g.emit(ir.NewCopy(n.Loc(), thenVar, result))
	g.emit(ir.NewJump(n.Loc(), lEnd))
	g.emit(ir.NewLabel(n.Loc(), lElse))
	elseVar, err := g.gen(n.ElseClause, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	g.emit(ir.NewCopy(n.Loc(), elseVar, result))
	g.emit(ir.NewJump(n.Loc(), lEnd))
	g.emit(ir.NewLabel(n.Loc(), lEnd))
	return result, nil
}

func (g *Generator) genWhile(n *ast.WhileExpression, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	lStart, lBody, lEnd := g.freshLabel(), g.freshLabel(), g.freshLabel()
	g.emit(ir.NewLabel(n.Loc(), lStart))
	cond, err := g.gen(n.Cond, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	g.emit(ir.NewCondJump(n.Loc(), cond, lBody, lEnd))
	g.emit(ir.NewLabel(n.Loc(), lBody))
	if _, err := g.gen(n.DoClause, sc); err != nil {
		return ir.IRVar{}, err
	}
	g.emit(ir.NewJump(n.Loc(), lStart))
	g.emit(ir.NewLabel(n.Loc(), lEnd))
	return ir.Unit, nil
}

func (g *Generator) genVarDeclaration(n *ast.VarDeclaration, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	value, err := g.gen(n.Value, sc)
	if err != nil {
		return ir.IRVar{}, err
	}
	newVar := g.freshTemp(n.Value.Type())
	sc.Set(n.Name, newVar)
	g.emit(ir.NewCopy(n.Loc(), value, newVar))
	return ir.Unit, nil
}

func (g *Generator) genBlock(n *ast.Block, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	inner := scope.NewEnclosed(sc)
	result := ir.Unit
	for _, stmt := range n.Statements {
		v, err := g.gen(stmt, inner)
		if err != nil {
			return ir.IRVar{}, err
		}
		result = v
	}
	return result, nil
}

func (g *Generator) genFunctionCall(n *ast.FunctionCall, sc *scope.Scope[ir.IRVar]) (ir.IRVar, *errors.CompilerError) {
	funVar, ok := sc.Get(n.Name)
	if !ok {
		return ir.IRVar{}, g.irErrorf(n, "unbound function %q reached IR generation", n.Name)
	}
	args := make([]ir.IRVar, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		v, err := g.gen(a, sc)
		if err != nil {
			return ir.IRVar{}, err
		}
		args = append(args, v)
	}
	dest := g.freshTemp(n.Type())
	g.emit(ir.NewCall(n.Loc(), funVar, args, dest))
	return dest, nil
}
