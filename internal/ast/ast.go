// Package ast defines the Abstract Syntax Tree produced by the parser and
// annotated in place by the type checker. Every node variant is a closed sum
// type: Literal, Identifier, UnaryOp, BinaryOp, IfExpression,
// WhileExpression, Block, VarDeclaration, FunctionCall.
//
// Type annotation lives on the node itself (a mutable Typ field set to Unit
// at construction and overwritten by the type checker), not in a side map:
// every stage downstream of the type checker reads a node's computed type
// by calling Type() on the node it is currently visiting.
package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-exprc/internal/token"
	"github.com/cwbudde/go-exprc/internal/types"
)

// Expression is the common interface of every AST node. The language is
// expression-oriented: even if, while, blocks, and var declarations satisfy
// this interface.
type Expression interface {
	Loc() token.SourceLocation
	Type() types.Type
	SetType(types.Type)
	String() string
	exprNode()
}

type base struct {
	Location token.SourceLocation
	Typ      types.Type
}

func newBase(loc token.SourceLocation) base {
	return base{Location: loc, Typ: types.Unit}
}

func (b *base) Loc() token.SourceLocation { return b.Location }
func (b *base) Type() types.Type          { return b.Typ }
func (b *base) SetType(t types.Type)      { b.Typ = t }

// Literal is an Int, Bool, or Unit constant. Value holds int64, bool, or nil
// (nil denotes the unit literal produced synthetically by the parser for a
// trailing ';'; an empty block is a Block with no statements instead).
type Literal struct {
	base
	Value any
}

func NewLiteral(loc token.SourceLocation, value any) *Literal {
	return &Literal{base: newBase(loc), Value: value}
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	if l.Value == nil {
		return "unit"
	}
	return fmt.Sprintf("%v", l.Value)
}

// Identifier is a bare name reference.
type Identifier struct {
	base
	Name string
}

func NewIdentifier(loc token.SourceLocation, name string) *Identifier {
	return &Identifier{base: newBase(loc), Name: name}
}

func (*Identifier) exprNode()        {}
func (i *Identifier) String() string { return i.Name }

// UnaryOp is "-" or "not" applied to a single operand.
type UnaryOp struct {
	base
	Op   string
	Expr Expression
}

func NewUnaryOp(loc token.SourceLocation, op string, expr Expression) *UnaryOp {
	return &UnaryOp{base: newBase(loc), Op: op, Expr: expr}
}

func (*UnaryOp) exprNode() {}
func (u *UnaryOp) String() string {
	sep := ""
	if len(u.Op) > 0 && isWordChar(u.Op[0]) {
		sep = " "
	}
	return fmt.Sprintf("(%s%s%s)", u.Op, sep, u.Expr.String())
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// BinaryOp covers arithmetic, comparisons, assignment ("="), and the
// short-circuiting "and"/"or".
type BinaryOp struct {
	base
	Left  Expression
	Op    string
	Right Expression
}

func NewBinaryOp(loc token.SourceLocation, left Expression, op string, right Expression) *BinaryOp {
	return &BinaryOp{base: newBase(loc), Left: left, Op: op, Right: right}
}

func (*BinaryOp) exprNode() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// IfExpression is `if cond then thenClause [else elseClause]`. ElseClause is
// nil when absent, in which case the expression's type is Unit.
type IfExpression struct {
	base
	Cond       Expression
	ThenClause Expression
	ElseClause Expression
}

func NewIfExpression(loc token.SourceLocation, cond, thenClause, elseClause Expression) *IfExpression {
	return &IfExpression{base: newBase(loc), Cond: cond, ThenClause: thenClause, ElseClause: elseClause}
}

func (*IfExpression) exprNode() {}
func (e *IfExpression) String() string {
	if e.ElseClause == nil {
		return fmt.Sprintf("(if %s then %s)", e.Cond.String(), e.ThenClause.String())
	}
	return fmt.Sprintf("(if %s then %s else %s)", e.Cond.String(), e.ThenClause.String(), e.ElseClause.String())
}

// WhileExpression is `while cond do doClause`; always evaluates to Unit.
type WhileExpression struct {
	base
	Cond     Expression
	DoClause Expression
}

func NewWhileExpression(loc token.SourceLocation, cond, doClause Expression) *WhileExpression {
	return &WhileExpression{base: newBase(loc), Cond: cond, DoClause: doClause}
}

func (*WhileExpression) exprNode() {}
func (e *WhileExpression) String() string {
	return fmt.Sprintf("(while %s do %s)", e.Cond.String(), e.DoClause.String())
}

// Block is a brace-delimited sequence of statements; its value is the value
// of its last statement, or Unit if it has none.
type Block struct {
	base
	Statements []Expression
}

func NewBlock(loc token.SourceLocation, statements []Expression) *Block {
	return &Block{base: newBase(loc), Statements: statements}
}

func (*Block) exprNode() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// VarDeclaration introduces a new binding in the innermost scope; it is only
// legal in declaration-allowing positions. DeclaredType is "" when the
// `var x: T = ...` annotation was omitted.
type VarDeclaration struct {
	base
	Name         string
	DeclaredType string
	Value        Expression
}

func NewVarDeclaration(loc token.SourceLocation, name, declaredType string, value Expression) *VarDeclaration {
	return &VarDeclaration{base: newBase(loc), Name: name, DeclaredType: declaredType, Value: value}
}

func (*VarDeclaration) exprNode() {}
func (v *VarDeclaration) String() string {
	if v.DeclaredType != "" {
		return fmt.Sprintf("(var %s: %s = %s)", v.Name, v.DeclaredType, v.Value.String())
	}
	return fmt.Sprintf("(var %s = %s)", v.Name, v.Value.String())
}

// FunctionCall invokes a builtin by name: `identifier(args...)`.
type FunctionCall struct {
	base
	Name      string
	Arguments []Expression
}

func NewFunctionCall(loc token.SourceLocation, name string, arguments []Expression) *FunctionCall {
	return &FunctionCall{base: newBase(loc), Name: name, Arguments: arguments}
}

func (*FunctionCall) exprNode() {}
func (f *FunctionCall) String() string {
	parts := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ", "))
}

// EndsWithBlock reports whether e, as the last statement seen so far inside
// a block, ends in a closed block: it is a Block, or an if/while/var/unary/
// binary expression whose tail expression ends in one. The parser then
// treats a following statement as not needing a preceding ';'.
func EndsWithBlock(e Expression) bool {
	switch n := e.(type) {
	case *Block:
		return true
	case *IfExpression:
		if n.ElseClause != nil {
			return EndsWithBlock(n.ElseClause)
		}
		return EndsWithBlock(n.ThenClause)
	case *WhileExpression:
		return EndsWithBlock(n.DoClause)
	case *VarDeclaration:
		return EndsWithBlock(n.Value)
	case *BinaryOp:
		return EndsWithBlock(n.Right)
	case *UnaryOp:
		return EndsWithBlock(n.Expr)
	default:
		return false
	}
}

// Equal reports whether a and b are structurally equal, ignoring source
// locations entirely so that test fixtures don't need to stamp positions.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Value == y.Value
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *UnaryOp:
		y, ok := b.(*UnaryOp)
		return ok && x.Op == y.Op && Equal(x.Expr, y.Expr)
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *IfExpression:
		y, ok := b.(*IfExpression)
		if !ok || !Equal(x.Cond, y.Cond) || !Equal(x.ThenClause, y.ThenClause) {
			return false
		}
		return Equal(x.ElseClause, y.ElseClause)
	case *WhileExpression:
		y, ok := b.(*WhileExpression)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.DoClause, y.DoClause)
	case *Block:
		y, ok := b.(*Block)
		if !ok || len(x.Statements) != len(y.Statements) {
			return false
		}
		for i := range x.Statements {
			if !Equal(x.Statements[i], y.Statements[i]) {
				return false
			}
		}
		return true
	case *VarDeclaration:
		y, ok := b.(*VarDeclaration)
		return ok && x.Name == y.Name && x.DeclaredType == y.DeclaredType && Equal(x.Value, y.Value)
	case *FunctionCall:
		y, ok := b.(*FunctionCall)
		if !ok || x.Name != y.Name || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if !Equal(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
