package ast

import (
	"testing"

	"github.com/cwbudde/go-exprc/internal/token"
	"github.com/cwbudde/go-exprc/internal/types"
)

func loc(line, col int) token.SourceLocation {
	return token.SourceLocation{File: "t.expr", Line: line, Column: col}
}

func TestNewNodesDefaultToUnitType(t *testing.T) {
	nodes := []Expression{
		NewLiteral(loc(1, 1), int64(1)),
		NewIdentifier(loc(1, 1), "x"),
		NewUnaryOp(loc(1, 1), "-", NewLiteral(loc(1, 1), int64(1))),
		NewBinaryOp(loc(1, 1), NewLiteral(loc(1, 1), int64(1)), "+", NewLiteral(loc(1, 1), int64(2))),
		NewBlock(loc(1, 1), nil),
	}
	for _, n := range nodes {
		if n.Type() != types.Unit {
			t.Errorf("%T: expected default type Unit, got %v", n, n.Type())
		}
	}
}

func TestSetTypeMutatesInPlace(t *testing.T) {
	lit := NewLiteral(loc(1, 1), int64(1))
	lit.SetType(types.Int)
	if lit.Type() != types.Int {
		t.Fatalf("expected Int after SetType, got %v", lit.Type())
	}
}

func TestStringRendersSExpressionStyle(t *testing.T) {
	tests := []struct {
		name string
		node Expression
		want string
	}{
		{
			name: "binary",
			node: NewBinaryOp(loc(1, 1), NewLiteral(loc(1, 1), int64(1)), "+", NewLiteral(loc(1, 1), int64(2))),
			want: "(1 + 2)",
		},
		{
			name: "unary word op",
			node: NewUnaryOp(loc(1, 1), "not", NewIdentifier(loc(1, 1), "b")),
			want: "(not b)",
		},
		{
			name: "unary symbol op",
			node: NewUnaryOp(loc(1, 1), "-", NewIdentifier(loc(1, 1), "x")),
			want: "(-x)",
		},
		{
			name: "if without else",
			node: NewIfExpression(loc(1, 1), NewIdentifier(loc(1, 1), "c"), NewLiteral(loc(1, 1), int64(1)), nil),
			want: "(if c then 1)",
		},
		{
			name: "unit literal",
			node: NewLiteral(loc(1, 1), nil),
			want: "unit",
		},
		{
			name: "function call",
			node: NewFunctionCall(loc(1, 1), "print_int", []Expression{NewLiteral(loc(1, 1), int64(1))}),
			want: "print_int(1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqualIgnoresLocation(t *testing.T) {
	a := NewBinaryOp(loc(1, 1), NewLiteral(loc(1, 1), int64(1)), "+", NewLiteral(loc(1, 5), int64(2)))
	b := NewBinaryOp(loc(99, 99), NewLiteral(loc(2, 2), int64(1)), "+", NewLiteral(loc(3, 3), int64(2)))
	if !Equal(a, b) {
		t.Fatal("expected structurally equal nodes to compare equal regardless of location")
	}
}

func TestEqualDetectsStructuralDifference(t *testing.T) {
	a := NewBinaryOp(loc(1, 1), NewLiteral(loc(1, 1), int64(1)), "+", NewLiteral(loc(1, 1), int64(2)))
	b := NewBinaryOp(loc(1, 1), NewLiteral(loc(1, 1), int64(1)), "-", NewLiteral(loc(1, 1), int64(2)))
	if Equal(a, b) {
		t.Fatal("expected different operators to compare unequal")
	}
}

func TestEndsWithBlock(t *testing.T) {
	block := NewBlock(loc(1, 1), nil)
	ifNoElse := NewIfExpression(loc(1, 1), NewIdentifier(loc(1, 1), "c"), block, nil)
	ifWithElse := NewIfExpression(loc(1, 1), NewIdentifier(loc(1, 1), "c"), NewLiteral(loc(1, 1), int64(1)), block)
	whileExpr := NewWhileExpression(loc(1, 1), NewIdentifier(loc(1, 1), "c"), block)
	plainLit := NewLiteral(loc(1, 1), int64(1))

	cases := []struct {
		name string
		expr Expression
		want bool
	}{
		{"block", block, true},
		{"if without else ending in block", ifNoElse, true},
		{"if with else ending in block", ifWithElse, true},
		{"while ending in block", whileExpr, true},
		{"plain literal", plainLit, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := EndsWithBlock(tt.expr); got != tt.want {
				t.Errorf("EndsWithBlock(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
