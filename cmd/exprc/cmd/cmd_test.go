package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetArgs(args)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.expr")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLexCommandPrintsTokens(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "lex", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "int_literal") {
		t.Errorf("expected token output, got:\n%s", out)
	}
}

func TestParseCommandPrintsSExpression(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "parse", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "+") {
		t.Errorf("expected an s-expression, got:\n%s", out)
	}
}

func TestParseCommandJSONFlag(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "parse", "--json", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"kind":"BinaryOp"`) {
		t.Errorf("expected JSON output, got:\n%s", out)
	}
}

func TestTypecheckCommandPrintsType(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "typecheck", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "Int" {
		t.Errorf("got %q, want Int", out)
	}
}

func TestTypecheckCommandReportsLocatedError(t *testing.T) {
	path := writeFixture(t, "1 + true")
	_, err := execute(t, "typecheck", path)
	if err == nil {
		t.Fatal("expected a type error")
	}
}

func TestIRCommandPrintsInstructions(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "ir", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "LoadIntConstant") {
		t.Errorf("expected IR output, got:\n%s", out)
	}
}

func TestIRCommandQueryFlag(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "ir", "--query", "0.kind", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "LoadIntConstant" {
		t.Errorf("got %q, want LoadIntConstant", out)
	}
}

func TestCompileCommandWritesAssembly(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out := filepath.Join(filepath.Dir(path), "program.s")
	_, err := execute(t, "compile", "-o", out, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, rerr := os.ReadFile(out)
	if rerr != nil {
		t.Fatalf("expected assembly file to exist: %v", rerr)
	}
	if !strings.Contains(string(data), "main:") {
		t.Errorf("expected a main label, got:\n%s", data)
	}
}

func TestCompileCommandStdoutFlagWritesAssemblyToStdout(t *testing.T) {
	path := writeFixture(t, "1 + 2")
	out, err := execute(t, "compile", "--stdout", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "main:") {
		t.Errorf("expected assembly on stdout, got:\n%s", out)
	}
	if strings.Contains(out, "wrote ") {
		t.Errorf("--stdout should not also print a file-written message, got:\n%s", out)
	}
}

func TestCompileCommandListLocalsNaturalSort(t *testing.T) {
	// Enough chained literals and operator calls to force temporaries past
	// x9 into x10, so a lexicographic sort ("x10" before "x2") would fail
	// this check where a natural sort passes.
	path := writeFixture(t, "1+2+3+4+5+6+7+8+9+10+11")
	out := filepath.Join(filepath.Dir(path), "program.s")
	// Flag variables keep their values across Execute calls; clear the
	// --stdout set by the previous test so the listing follows "wrote ..."
	// instead of trailing the assembly text.
	compileStdout = false
	stdout, err := execute(t, "compile", "-o", out, "--list-locals", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stdout)
	}
	nine := strings.Index(stdout, "x9 ")
	ten := strings.Index(stdout, "x10")
	if nine < 0 || ten < 0 || nine >= ten {
		t.Errorf("expected x9 to sort before x10, got:\n%s", stdout)
	}
}

func TestRunCommandExecutesProgram(t *testing.T) {
	path := writeFixture(t, "print_int(1 + 2)")
	out, err := execute(t, "run", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
}
