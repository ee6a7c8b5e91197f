package parser_test

import (
	"errors"
	"testing"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/parser"
)

func mustParse(t testing.TB, src string) *ast.Program {
	t.Helper()
	program, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", src, err)
	}
	return program
}

func firstExpression(t testing.TB, program *ast.Program) ast.Expression {
	t.Helper()
	if len(program.Statements) == 0 {
		t.Fatalf("program has no statements")
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Statements[0])
	}
	return stmt.Expression
}

func checkRange(t testing.TB, label string, rng ast.Range, beginRow, beginCol, endRow, endCol int) {
	t.Helper()
	if rng.Begin.Row != beginRow || rng.Begin.Col != beginCol {
		t.Fatalf("%s begin mismatch: got (%d,%d), want (%d,%d)", label, rng.Begin.Row, rng.Begin.Col, beginRow, beginCol)
	}
	if rng.End.Row != endRow || rng.End.Col != endCol {
		t.Fatalf("%s end mismatch: got (%d,%d), want (%d,%d)", label, rng.End.Row, rng.End.Col, endRow, endCol)
	}
}

func expectSyntaxError(t testing.TB, src string, opts ...parser.Option) *parser.SyntaxError {
	t.Helper()
	_, err := parser.ParseString(src, opts...)
	if err == nil {
		t.Fatalf("ParseString(%q) succeeded, want syntax error", src)
	}
	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("ParseString(%q) error %T is not a *SyntaxError: %v", src, err, err)
	}
	return syntaxErr
}
