package irgen

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-exprc/internal/ir"
	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
	"github.com/gkampitakis/go-snaps/snaps"
)

func generate(t *testing.T, src string) *ir.Program {
	t.Helper()
	root, perr := parser.Parse(src, "t.expr")
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if _, cerr := semantic.New(src, "t.expr").Check(root); cerr != nil {
		t.Fatalf("unexpected type error: %v", cerr)
	}
	prog, ierr := New(src, "t.expr").Generate(root)
	if ierr != nil {
		t.Fatalf("unexpected IR error: %v", ierr)
	}
	return prog
}

func dump(prog *ir.Program) string {
	var sb strings.Builder
	for _, instr := range prog.Instructions {
		sb.WriteString(instr.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func countKind[T ir.Instruction](prog *ir.Program) int {
	n := 0
	for _, instr := range prog.Instructions {
		if _, ok := instr.(T); ok {
			n++
		}
	}
	return n
}

func TestGenerateAppendsPrintForIntRoot(t *testing.T) {
	prog := generate(t, "1 + 2")
	out := dump(prog)
	if !strings.Contains(out, "print_int") {
		t.Errorf("expected a print_int call in output, got:\n%s", out)
	}
}

func TestGenerateAppendsPrintForBoolRoot(t *testing.T) {
	prog := generate(t, "true == not false")
	out := dump(prog)
	if !strings.Contains(out, "print_bool") {
		t.Errorf("expected a print_bool call in output, got:\n%s", out)
	}
}

func TestGenerateUnitRootAppendsNoPrint(t *testing.T) {
	prog := generate(t, "var x = 1")
	out := dump(prog)
	if strings.Contains(out, "print_int") || strings.Contains(out, "print_bool") {
		t.Errorf("unit-typed root must not print, got:\n%s", out)
	}
}

func TestShortCircuitOrEmitsThreeLabels(t *testing.T) {
	prog := generate(t, "var right = false; true or {right = true; true}; right")
	if n := countKind[*ir.Label](prog); n < 3 {
		t.Errorf("expected at least 3 labels for short-circuit lowering, got %d", n)
	}
	if n := countKind[*ir.CondJump](prog); n < 1 {
		t.Errorf("expected at least one CondJump, got %d", n)
	}
}

func TestWhileEmitsLoopStructure(t *testing.T) {
	prog := generate(t, "var i = 0; while i < 3 do i = i + 1; i")
	if n := countKind[*ir.Jump](prog); n < 1 {
		t.Errorf("expected at least one back-edge Jump, got %d", n)
	}
	if n := countKind[*ir.CondJump](prog); n < 1 {
		t.Errorf("expected at least one loop CondJump, got %d", n)
	}
}

func TestIfWithElseCopiesIntoSharedResult(t *testing.T) {
	prog := generate(t, "if 1 < 2 then 3 else 4")
	if n := countKind[*ir.Copy](prog); n < 2 {
		t.Errorf("expected both branches to Copy into the result var, got %d Copy instructions", n)
	}
}

func TestGenerateArithmeticIRSnapshot(t *testing.T) {
	snaps.MatchSnapshot(t, dump(generate(t, "1 + 2 * 3")))
}

func TestGenerateIfElseIRSnapshot(t *testing.T) {
	snaps.MatchSnapshot(t, dump(generate(t, "if 1 < 2 then 3 else 4")))
}
