package parser_test

import (
	"testing"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/token"
)

func TestParseExpressionShapes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"single assignment", "x = 42", "(= x 42)"},
		{"multiple assignments", "x = 42 한 = 9 _123 = 123", "(= x 42)\n(= 한 9)\n(= _123 123)"},
		{"chained assignment is right associative", "x = y = 42", "(= x (= y 42))"},
		{"subtraction is left associative", "11 - 22 - 33", "(- (- 11 22) 33)"},
		{"equality is right associative", "foo == bar == baz", "(== foo (== bar baz))"},
		{"relational groups left before equality", "x <= y == z", "(== (<= x y) z)"},
		{"relational is left associative", "a < b < c", "(< (< a b) c)"},
		{"equality after relational chain", "a >= b > c != d", "(!= (> (>= a b) c) d)"},
		{"equality keeps relational operand on the right", "a == b < c", "(== a (< b c))"},
		{"grouping overrides comparison associativity", "x == (y >= z)", "(== x (>= y z))"},
		{"comparisons", "x != y x > y x < y x >= y", "(!= x y)\n(> x y)\n(< x y)\n(>= x y)"},
		{"multiplicative over additive", "11+22*33/44-55", "(- (+ 11 (/ (* 22 33) 44)) 55)"},
		{"product then sum", "42*99+12", "(+ (* 42 99) 12)"},
		{"sum then product", "42+99*12", "(+ 42 (* 99 12))"},
		{"curried call", "f(1)(2)", "(call (call f 1) 2)"},
		{"call with several arguments", "f(a, b + 1, '문자')", "(call f a (+ b 1) '문자')"},
		{"call without arguments", "f()", "(call f)"},
		{"prefix minus", "-42", "(- 42)"},
		{"prefix nests to the right", "--42", "(- (- 42))"},
		{"prefix plus", "+42++99", "(+ (+ 42) (+ 99))"},
		{"prefix binds tighter than infix", "-42+-99", "(+ (- 42) (- 99))"},
		{"prefix on product operand", "-a*b", "(* (- a) b)"},
		{"call binds tighter than prefix", "-f(1)", "(- (call f 1))"},
		{"bang", "!참", "(! 참)"},
		{"nested groups", "12+(34+(56+(78+9)))", "(+ 12 (+ 34 (+ 56 (+ 78 9))))"},
		{"mixed groups", "(12*(34/56))+(7-((8+9)*10))", "(+ (* 12 (/ 34 56)) (- 7 (* (+ 8 9) 10)))"},
		{"floats", "0.75 + 1.25", "(+ 0.75 1.25)"},
		{"booleans", "참 거짓", "참\n거짓"},
		{"string literal", "'foo bar'", "'foo bar'"},
		{"assignment of comparison", "x = y == z", "(= x (== y z))"},
		{"assignment target is unrestricted", "a + b = c", "(= (+ a b) c)"},
		{"function literal", "함수(a, b) { 결과 a + b }", "(fn [a b] {(return (+ a b))})"},
		{"function without parameters", "함수() { 결과 1 }", "(fn [] {(return 1)})"},
		{"immediately invoked function", "(함수(x) { 결과 x })(3)", "(call (fn [x] {(return x)}) 3)"},
		{"branch", "만약 x > 1 { y = 1 }", "(if (> x 1) {(= y 1)})"},
		{"branch with alternative", "만약 (참) { y = 1 } 아니면 { y = 2 }", "(if 참 {(= y 1)} {(= y 2)})"},
		{"return statement", "결과 -x", "(return (- x))"},
		{"empty program", "", ""},
		{"empty block", "함수() {}", "(fn [] {})"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			program := mustParse(t, tc.src)
			if got := ast.Sexp(program); got != tc.want {
				t.Fatalf("ParseString(%q):\n got: %s\nwant: %s", tc.src, got, tc.want)
			}
		})
	}
}

func TestParseLiteralRangeIsInclusive(t *testing.T) {
	program := mustParse(t, "12345")
	lit, ok := firstExpression(t, program).(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expected number literal")
	}
	if lit.Value != 12345 {
		t.Fatalf("value = %v", lit.Value)
	}
	checkRange(t, "literal", lit.Range(), 0, 0, 0, 4)
	checkRange(t, "program", program.Range(), 0, 0, 0, 4)
	checkRange(t, "statement", program.Statements[0].Range(), 0, 0, 0, 4)
}

func TestParseAssignmentRanges(t *testing.T) {
	program := mustParse(t, "x = y = 42")
	outer := firstExpression(t, program).(*ast.AssignmentExpression)
	checkRange(t, "outer assignment", outer.Range(), 0, 0, 0, 9)
	checkRange(t, "target", outer.Left.Range(), 0, 0, 0, 0)
	inner := outer.Right.(*ast.AssignmentExpression)
	checkRange(t, "inner assignment", inner.Range(), 0, 4, 0, 9)
	checkRange(t, "value", inner.Right.Range(), 0, 8, 0, 9)
}

func TestParseGroupTakesParenthesesRange(t *testing.T) {
	program := mustParse(t, "(12)")
	lit, ok := firstExpression(t, program).(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("group should unwrap to its inner node")
	}
	checkRange(t, "group", lit.Range(), 0, 0, 0, 3)

	program = mustParse(t, "1 * (2 + 3)")
	product := firstExpression(t, program).(*ast.InfixExpression)
	checkRange(t, "product", product.Range(), 0, 0, 0, 10)
	checkRange(t, "grouped sum", product.Right.Range(), 0, 4, 0, 10)
}

func TestParseCallRanges(t *testing.T) {
	program := mustParse(t, "f(1)(2)")
	outer := firstExpression(t, program).(*ast.CallExpression)
	checkRange(t, "outer call", outer.Range(), 0, 0, 0, 6)
	inner := outer.Callee.(*ast.CallExpression)
	checkRange(t, "inner call", inner.Range(), 0, 0, 0, 3)
	if len(outer.Arguments) != 1 || len(inner.Arguments) != 1 {
		t.Fatalf("unexpected argument counts")
	}

	program = mustParse(t, "(함수(x) { 결과 x })(3)")
	call := firstExpression(t, program).(*ast.CallExpression)
	checkRange(t, "iife", call.Range(), 0, 0, 0, 18)
	checkRange(t, "iife callee", call.Callee.Range(), 0, 0, 0, 15)
}

func TestParseStatementRanges(t *testing.T) {
	program := mustParse(t, "만약 x > 1 { y = 1 } 아니면 { y = 2 }")
	branch := program.Statements[0].(*ast.BranchStatement)
	checkRange(t, "branch", branch.Range(), 0, 0, 0, 31)
	checkRange(t, "predicate", branch.Predicate.Range(), 0, 3, 0, 7)
	checkRange(t, "consequence", branch.Consequence.Range(), 0, 9, 0, 17)
	checkRange(t, "alternative", branch.Alternative.Range(), 0, 23, 0, 31)

	program = mustParse(t, "함수(a, b) { 결과 a + b }")
	fn := firstExpression(t, program).(*ast.FunctionLiteral)
	checkRange(t, "function", fn.Range(), 0, 0, 0, 20)
	checkRange(t, "param b", fn.Parameters[1].Range(), 0, 6, 0, 6)
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	checkRange(t, "return", ret.Range(), 0, 11, 0, 18)
}

func TestParseBranchWithoutAlternativeHasNilField(t *testing.T) {
	program := mustParse(t, "만약 참 { x = 1 }")
	branch := program.Statements[0].(*ast.BranchStatement)
	if branch.Alternative != nil {
		t.Fatalf("expected no alternative, got %#v", branch.Alternative)
	}
}

func TestParseMultilineRanges(t *testing.T) {
	src := "f = 함수(n) {\n  만약 n < 1 {\n    결과 0\n  }\n  결과 n\n}"
	program := mustParse(t, src)
	assign := firstExpression(t, program).(*ast.AssignmentExpression)
	checkRange(t, "assignment", assign.Range(), 0, 0, 5, 0)
	fn := assign.Right.(*ast.FunctionLiteral)
	branch := fn.Body.Statements[0].(*ast.BranchStatement)
	checkRange(t, "branch", branch.Range(), 1, 2, 3, 2)
	last := fn.Body.Statements[1].(*ast.ReturnStatement)
	checkRange(t, "last return", last.Range(), 4, 2, 4, 5)
}

func TestParseFromTokenStream(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Identifier, Literal: "x", Range: ast.Rng(0, 0, 0, 0)},
		{Kind: token.Assign, Literal: "=", Range: ast.Rng(0, 2, 0, 2)},
		{Kind: token.Minus, Literal: "-", Range: ast.Rng(0, 4, 0, 4)},
		{Kind: token.Number, Literal: "7", Range: ast.Rng(0, 5, 0, 5)},
	}
	program, err := parser.Parse(token.NewSliceStream(tokens))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := ast.Sexp(program); got != "(= x (- 7))" {
		t.Fatalf("unexpected tree %s", got)
	}
	checkRange(t, "program", program.Range(), 0, 0, 0, 5)
}
