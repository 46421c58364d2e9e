package interp

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-exprc/internal/parser"
	"github.com/cwbudde/go-exprc/internal/semantic"
)

func run(t *testing.T, src string, stdin string) (Value, string) {
	t.Helper()
	root, perr := parser.Parse(src, "t.expr")
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if _, cerr := semantic.New(src, "t.expr").Check(root); cerr != nil {
		t.Fatalf("unexpected type error: %v", cerr)
	}
	var out strings.Builder
	v, ierr := New(src, "t.expr").WithIO(strings.NewReader(stdin), &out).Run(root)
	if ierr != nil {
		t.Fatalf("unexpected runtime error: %v", ierr)
	}
	return v, out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	v, _ := run(t, "1 + 2 * 3", "")
	if v.(int64) != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestIfElseBranches(t *testing.T) {
	if v, _ := run(t, "if 1 < 2 then 3 else 4", ""); v.(int64) != 3 {
		t.Errorf("got %v, want 3", v)
	}
	if v, _ := run(t, "if 2 < 1 then 3 else 4", ""); v.(int64) != 4 {
		t.Errorf("got %v, want 4", v)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	v, _ := run(t, "var i = 0; while i < 3 do i = i + 1; i", "")
	if v.(int64) != 3 {
		t.Errorf("got %v, want 3", v)
	}
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	v, _ := run(t, "var right = false; true or {right = true; true}; right", "")
	if v.(bool) != false {
		t.Errorf("or short-circuit evaluated its right operand: got %v", v)
	}
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	v, _ := run(t, "var right = false; false and {right = true; true}; right", "")
	if v.(bool) != false {
		t.Errorf("and short-circuit evaluated its right operand: got %v", v)
	}
}

func TestEqualityAcrossNot(t *testing.T) {
	v, _ := run(t, "true == not false", "")
	if v.(bool) != true {
		t.Errorf("got %v, want true", v)
	}
}

func TestDivisionAndModulo(t *testing.T) {
	if v, _ := run(t, "4 / -2", ""); v.(int64) != -2 {
		t.Errorf("got %v, want -2", v)
	}
	if v, _ := run(t, "4 % 2", ""); v.(int64) != 0 {
		t.Errorf("got %v, want 0", v)
	}
}

func TestDivisionByZeroRaisesRuntimeError(t *testing.T) {
	root, perr := parser.Parse("1 / 0", "t.expr")
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if _, cerr := semantic.New("1 / 0", "t.expr").Check(root); cerr != nil {
		t.Fatalf("unexpected type error: %v", cerr)
	}
	if _, ierr := New("1 / 0", "t.expr").Run(root); ierr == nil {
		t.Fatal("expected a runtime error for division by zero")
	}
}

func TestScopeShadowing(t *testing.T) {
	v, _ := run(t, "var x = 1; {var x = 2; x}", "")
	if v.(int64) != 2 {
		t.Errorf("inner block got %v, want 2", v)
	}
	v, _ = run(t, "var x = 1; {var x = 2; x}; x", "")
	if v.(int64) != 1 {
		t.Errorf("outer x was mutated by shadowing, got %v, want 1", v)
	}
}

func TestAssignmentIsAnExpressionAndChains(t *testing.T) {
	v, _ := run(t, "var x = 0; var y = 0; x = y = -1; x", "")
	if v.(int64) != -1 {
		t.Errorf("got %v, want -1", v)
	}
}

func TestReadIntRoundTrips(t *testing.T) {
	v, _ := run(t, "read_int()", "42\n")
	if v.(int64) != 42 {
		t.Errorf("got %v, want 42", v)
	}
}

func TestPrintIntWritesDecimalLine(t *testing.T) {
	_, out := run(t, "print_int(5)", "")
	if strings.TrimSpace(out) != "5" {
		t.Errorf("got %q, want \"5\"", out)
	}
}

func TestPrintBoolWritesTrueOrFalse(t *testing.T) {
	_, out := run(t, "print_bool(1 < 2)", "")
	if strings.TrimSpace(out) != "true" {
		t.Errorf("got %q, want \"true\"", out)
	}
}
