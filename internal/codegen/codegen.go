// Package codegen lowers a linear IR program into x86-64 GNU assembler
// (AT&T syntax) targeting the System V calling convention, the final
// stage of the pipeline.
package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/go-exprc/internal/errors"
	"github.com/cwbudde/go-exprc/internal/ir"
)

// Generator walks an ir.Program once, emitting one or more assembly lines
// per instruction and allocating stack slots for every IRVar it meets
// along the way.
type Generator struct {
	source, file string
	locals       *Locals
	body         []string
}

// New creates a Generator; source and file are carried only for error
// reporting.
func New(source, file string) *Generator {
	return &Generator{source: source, file: file, locals: NewLocals()}
}

// Locals exposes the stack-slot allocator after Generate has run, for a
// debug listing of every variable's assigned offset.
func (g *Generator) Locals() *Locals { return g.locals }

func (g *Generator) emit(format string, args ...any) {
	g.body = append(g.body, "    "+fmt.Sprintf(format, args...))
}

func (g *Generator) codegenErrorf(instr ir.Instruction, format string, args ...any) *errors.CompilerError {
	return errors.New(errors.StageCodegen, instr.Loc(), g.source, g.file, format, args...)
}

func (g *Generator) ref(v ir.IRVar) string { return g.locals.Ref(v) }

// Generate produces the complete assembly text for prog, including the
// entry-point prologue and epilogue.
func (g *Generator) Generate(prog *ir.Program) (string, *errors.CompilerError) {
	for _, instr := range prog.Instructions {
		g.body = append(g.body, fmt.Sprintf("    # %s", instr.String()))
		if err := g.lower(instr); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	out.WriteString(".global main\n")
	out.WriteString(".type main, @function\n")
	out.WriteString(".extern print_int, print_bool, read_int\n")
	out.WriteString(".section .text\n")
	out.WriteString("main:\n")
	out.WriteString("    pushq %rbp\n")
	out.WriteString("    movq %rsp, %rbp\n")
	out.WriteString(fmt.Sprintf("    subq $%d, %%rsp\n", g.locals.StackUsed()))
	for _, line := range g.body {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString("    movq $0, %rax\n")
	out.WriteString("    leave\n")
	out.WriteString("    ret\n")
	return out.String(), nil
}

func (g *Generator) lower(instr ir.Instruction) *errors.CompilerError {
	switch n := instr.(type) {
	case *ir.LoadIntConstant:
		g.lowerLoadInt(n)
	case *ir.LoadBoolConstant:
		val := 0
		if n.Value {
			val = 1
		}
		g.emit("movq $%d, %s", val, g.ref(n.Dest))
	case *ir.Copy:
		g.emit("movq %s, %%rax", g.ref(n.Source))
		g.emit("movq %%rax, %s", g.ref(n.Dest))
	case *ir.Label:
		g.body = append(g.body, fmt.Sprintf(".L%s:", n.Name))
	case *ir.Jump:
		g.emit("jmp .L%s", n.Target)
	case *ir.CondJump:
		g.emit("cmpq $0, %s", g.ref(n.Cond))
		g.emit("jne .L%s", n.Then)
		g.emit("jmp .L%s", n.Else)
	case *ir.Call:
		return g.lowerCall(n)
	default:
		return g.codegenErrorf(instr, "unhandled IR instruction %T", instr)
	}
	return nil
}

func (g *Generator) lowerLoadInt(n *ir.LoadIntConstant) {
	if n.Value >= math.MinInt32 && n.Value <= math.MaxInt32 {
		g.emit("movq $%d, %s", n.Value, g.ref(n.Dest))
		return
	}
	g.emit("movabsq $%d, %%rax", n.Value)
	g.emit("movq %%rax, %s", g.ref(n.Dest))
}

func (g *Generator) lowerCall(n *ir.Call) *errors.CompilerError {
	name := n.Fun.Name

	if fn, ok := Intrinsics[name]; ok {
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = g.ref(a)
		}
		fn(args, g.emit)
		g.emit("movq %%rax, %s", g.ref(n.Dest))
		return nil
	}

	if Builtins[name] {
		if len(n.Args) > 0 {
			g.emit("movq %s, %%rdi", g.ref(n.Args[0]))
		}
		g.emit("callq %s", name)
		if name == "read_int" {
			g.emit("movq %%rax, %s", g.ref(n.Dest))
		}
		return nil
	}

	return g.codegenErrorf(n, "unknown call target %q", name)
}
