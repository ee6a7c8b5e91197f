package interpreter

import (
	"errors"
	"testing"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/runtime"
)

func parseSource(t testing.TB, src string) *ast.Program {
	t.Helper()
	program, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return program
}

// evalSource evaluates src against a fresh root environment.
func evalSource(t testing.TB, src string, opts ...Option) (runtime.Value, *runtime.Environment) {
	t.Helper()
	env := runtime.NewEnvironment(nil)
	val, err := New(opts...).Evaluate(parseSource(t, src), env)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	return val, env
}

func evalError(t testing.TB, src string, opts ...Option) *Error {
	t.Helper()
	_, err := New(opts...).Evaluate(parseSource(t, src), runtime.NewEnvironment(nil))
	if err == nil {
		t.Fatalf("evaluate %q succeeded, want error", src)
	}
	var evalErr *Error
	if !errors.As(err, &evalErr) {
		t.Fatalf("evaluate %q returned %T, want *Error: %v", src, err, err)
	}
	return evalErr
}

func expectNumber(t testing.TB, val runtime.Value, want float64) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok {
		t.Fatalf("expected number %v, got %#v", want, val)
	}
	if num.Val != want {
		t.Fatalf("number = %v, want %v", num.Val, want)
	}
}

func expectBoolean(t testing.TB, val runtime.Value, want bool) {
	t.Helper()
	b, ok := val.(runtime.BooleanValue)
	if !ok {
		t.Fatalf("expected boolean %v, got %#v", want, val)
	}
	if b.Val != want {
		t.Fatalf("boolean = %v, want %v", b.Val, want)
	}
}

func lookup(t testing.TB, env *runtime.Environment, name string) runtime.Value {
	t.Helper()
	val, ok := env.Get(name)
	if !ok {
		t.Fatalf("expected %q to be bound", name)
	}
	return val
}

func newEnv() *runtime.Environment { return runtime.NewEnvironment(nil) }
