// Package jsonout renders the AST and IR to JSON for the --json CLI flags,
// building the document incrementally with sjson rather than declaring
// parallel Go structs for every node kind, and supports extracting a single
// field from a dumped document with a gjson path for scripting.
package jsonout

import (
	"fmt"

	"github.com/cwbudde/go-exprc/internal/ast"
	"github.com/cwbudde/go-exprc/internal/ir"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func set(doc, path string, value any) string {
	out, err := sjson.Set(doc, path, value)
	if err != nil {
		// sjson.Set only fails on a malformed path; every path here is a
		// compile-time constant, so this would be a programming error.
		panic(fmt.Sprintf("jsonout: invalid path %q: %v", path, err))
	}
	return out
}

// AST renders root as a JSON document shaped like its String() form, but
// structured for machine consumption: {"kind": "...", ...fields}.
func AST(root ast.Expression) string {
	return astNode("", root)
}

func astNode(doc string, e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		doc = set(doc, "kind", "Literal")
		if n.Value == nil {
			doc = set(doc, "value", nil)
		} else {
			doc = set(doc, "value", n.Value)
		}
	case *ast.Identifier:
		doc = set(doc, "kind", "Identifier")
		doc = set(doc, "name", n.Name)
	case *ast.UnaryOp:
		doc = set(doc, "kind", "UnaryOp")
		doc = set(doc, "op", n.Op)
		doc = setChild(doc, "expr", n.Expr)
	case *ast.BinaryOp:
		doc = set(doc, "kind", "BinaryOp")
		doc = set(doc, "op", n.Op)
		doc = setChild(doc, "left", n.Left)
		doc = setChild(doc, "right", n.Right)
	case *ast.IfExpression:
		doc = set(doc, "kind", "IfExpression")
		doc = setChild(doc, "cond", n.Cond)
		doc = setChild(doc, "then", n.ThenClause)
		if n.ElseClause != nil {
			doc = setChild(doc, "else", n.ElseClause)
		}
	case *ast.WhileExpression:
		doc = set(doc, "kind", "WhileExpression")
		doc = setChild(doc, "cond", n.Cond)
		doc = setChild(doc, "do", n.DoClause)
	case *ast.Block:
		doc = set(doc, "kind", "Block")
		for i, stmt := range n.Statements {
			doc = setChild(doc, fmt.Sprintf("statements.%d", i), stmt)
		}
	case *ast.VarDeclaration:
		doc = set(doc, "kind", "VarDeclaration")
		doc = set(doc, "name", n.Name)
		if n.DeclaredType != "" {
			doc = set(doc, "declaredType", n.DeclaredType)
		}
		doc = setChild(doc, "value", n.Value)
	case *ast.FunctionCall:
		doc = set(doc, "kind", "FunctionCall")
		doc = set(doc, "name", n.Name)
		for i, a := range n.Arguments {
			doc = setChild(doc, fmt.Sprintf("arguments.%d", i), a)
		}
	}
	if e.Type() != nil {
		doc = set(doc, "type", e.Type().String())
	}
	return doc
}

func setChild(doc, path string, child ast.Expression) string {
	sub := astNode("", child)
	raw, err := sjson.SetRaw(doc, path, sub)
	if err != nil {
		panic(fmt.Sprintf("jsonout: invalid path %q: %v", path, err))
	}
	return raw
}

// IR renders prog as a JSON array of instruction objects.
func IR(prog *ir.Program) string {
	doc := "[]"
	for i, instr := range prog.Instructions {
		entry := irInstruction(instr)
		raw, err := sjson.SetRaw(doc, fmt.Sprintf("%d", i), entry)
		if err != nil {
			panic(fmt.Sprintf("jsonout: IR dump: %v", err))
		}
		doc = raw
	}
	return doc
}

func irInstruction(instr ir.Instruction) string {
	doc := "{}"
	switch n := instr.(type) {
	case *ir.LoadIntConstant:
		doc = set(doc, "kind", "LoadIntConstant")
		doc = set(doc, "value", n.Value)
		doc = set(doc, "dest", n.Dest.Name)
	case *ir.LoadBoolConstant:
		doc = set(doc, "kind", "LoadBoolConstant")
		doc = set(doc, "value", n.Value)
		doc = set(doc, "dest", n.Dest.Name)
	case *ir.Copy:
		doc = set(doc, "kind", "Copy")
		doc = set(doc, "source", n.Source.Name)
		doc = set(doc, "dest", n.Dest.Name)
	case *ir.Call:
		doc = set(doc, "kind", "Call")
		doc = set(doc, "fun", n.Fun.Name)
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = a.Name
		}
		doc = set(doc, "args", args)
		doc = set(doc, "dest", n.Dest.Name)
	case *ir.Label:
		doc = set(doc, "kind", "Label")
		doc = set(doc, "name", n.Name)
	case *ir.Jump:
		doc = set(doc, "kind", "Jump")
		doc = set(doc, "target", n.Target)
	case *ir.CondJump:
		doc = set(doc, "kind", "CondJump")
		doc = set(doc, "cond", n.Cond.Name)
		doc = set(doc, "then", n.Then)
		doc = set(doc, "else", n.Else)
	}
	return doc
}

// Query extracts a single field from a JSON document dumped by AST or IR
// using a gjson path, for the `--query` CLI flag.
func Query(doc, path string) (string, bool) {
	result := gjson.Get(doc, path)
	if !result.Exists() {
		return "", false
	}
	return result.String(), true
}
