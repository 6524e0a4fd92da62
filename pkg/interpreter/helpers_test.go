package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/runtime"
)

// traversalLibrary is the usual set of user-level sequence procedures.
const traversalLibrary = `
filter(pred, seq) {
  if (is_empty(seq)) { return list(); }
  let first = head(seq);
  let tail = filter(pred, rest(seq));
  if (pred(first)) { return list(first) + tail; }
  return tail;
}

map(f, seq) {
  if (is_empty(seq)) { return list(); }
  return list(f(head(seq))) + map(f, rest(seq));
}

fold_left(f, acc, seq) {
  if (is_empty(seq)) { return acc; }
  return fold_left(f, f(acc, head(seq)), rest(seq));
}
`

// runSource runs source and fails the test on any error.
func runSource(t *testing.T, source string) []string {
	t.Helper()
	lines, err := Run(source, Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return lines
}

// runSourceErr runs source and expects an error.
func runSourceErr(t *testing.T, source string) ([]string, error) {
	t.Helper()
	lines, err := Run(source, Options{})
	if err == nil {
		t.Fatalf("expected Run to fail, printed %v", lines)
	}
	return lines, err
}

// evalProgram evaluates a DSL-built program and returns main's value with the
// printed lines.
func evalProgram(t *testing.T, prog *ast.Program) (runtime.Value, []string) {
	t.Helper()
	var out bytes.Buffer
	interp := New(Options{Stdout: &out})
	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		t.Fatalf("EvaluateProgram returned error: %v", err)
	}
	lines := interp.Output()
	if got := strings.Join(lines, "\n"); len(lines) > 0 && got+"\n" != out.String() {
		t.Fatalf("recorded output %q does not match stdout %q", got, out.String())
	}
	return val, lines
}

// mainProgram wraps statements in a parameterless main.
func mainProgram(body ...ast.Statement) *ast.Program {
	return ast.Prog(ast.Proc("main", nil, body...))
}

func assertLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines %q, got %d lines %q", len(want), want, len(got), got)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("line %d: expected %q, got %q (all: %q)", idx, want[idx], got[idx], got)
		}
	}
}

func assertInteger(t *testing.T, val runtime.Value, want int64) {
	t.Helper()
	iv, ok := val.(runtime.IntegerValue)
	if !ok {
		t.Fatalf("expected integer %d, got %#v", want, val)
	}
	if iv.Val != want {
		t.Fatalf("expected %d, got %d", want, iv.Val)
	}
}

func requireErrorAs[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected %T in chain, got %T: %v", target, err, err)
	}
	return target
}
