package interpreter

import (
	"math"
	"testing"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

func TestEvaluateStringLiteral(t *testing.T) {
	interp := New()
	env := runtime.NewEnvironment(nil)
	val, err := interp.evaluateExpression(ast.Str("hello"), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "hello" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateIdentifierLookup(t *testing.T) {
	interp := New()
	root := runtime.NewEnvironment(nil)
	root.Set("greeting", runtime.NewString("안녕", ast.Range{}))
	child := runtime.NewEnvironment(root)

	val, err := interp.evaluateExpression(ast.ID("greeting"), child)
	if err != nil {
		t.Fatalf("identifier lookup failed: %v", err)
	}
	if val.Display() != "안녕" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateEmptyProgram(t *testing.T) {
	val, _ := evalSource(t, "")
	if val.Kind() != runtime.KindEmpty || val.Display() != "(없음)" {
		t.Fatalf("empty program = %#v", val)
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := map[string]float64{
		"1 + 2":          3,
		"11+22*33/44-55": -27.5,
		"7 / 2":          3.5,
		"11 - 22 - 33":   -44,
		"2 * (3 + 4)":    14,
		"--42":           42,
		"+42++99":        141,
		"-42+-99":        -141,
		"0.75 + 1.25":    2,
	}
	for src, want := range cases {
		val, _ := evalSource(t, src)
		expectNumber(t, val, want)
	}
}

func TestEvaluateDivisionByZeroFollowsFloatSemantics(t *testing.T) {
	val, _ := evalSource(t, "1 / 0")
	if n := val.(runtime.NumberValue); !math.IsInf(n.Val, 1) || n.Display() != "Infinity" {
		t.Fatalf("1 / 0 = %#v", val)
	}
	val, _ = evalSource(t, "0 / 0")
	if n := val.(runtime.NumberValue); !math.IsNaN(n.Val) {
		t.Fatalf("0 / 0 = %#v", val)
	}
}

func TestEvaluateComparisons(t *testing.T) {
	cases := map[string]bool{
		"'a' == 'a'":   true,
		"'a' < 'b'":    true,
		"'가' > '나'":    false,
		"'a' != 'a'":   false,
		"1 < 2":        true,
		"2 <= 2":       true,
		"3 >= 4":       false,
		"1 != 2":       true,
		"참 == 참":       true,
		"참 > 거짓":       true,
		"거짓 >= 참":      false,
		"1 < 2 == 거짓":  false,
		"!(1 == 1)":    false,
		"!거짓":          true,
		"0 / 0 == 0/0": false,
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			val, _ := evalSource(t, src)
			expectBoolean(t, val, want)
		})
	}
}

func TestEvaluateChainedAssignment(t *testing.T) {
	val, env := evalSource(t, "x = y = 42")
	expectNumber(t, val, 42)
	expectNumber(t, lookup(t, env, "x"), 42)
	expectNumber(t, lookup(t, env, "y"), 42)
}

func TestBranchSharesEnclosingScope(t *testing.T) {
	val, env := evalSource(t, "x = 1 만약 (참) { x = 2 } x")
	expectNumber(t, val, 2)

	_, env = evalSource(t, "만약 거짓 { a = 1 } 아니면 { b = 2 }")
	if _, ok := env.Get("a"); ok {
		t.Fatalf("untaken arm should not bind a")
	}
	expectNumber(t, lookup(t, env, "b"), 2)
}

func TestBranchWithoutAlternativeIsEmpty(t *testing.T) {
	val, _ := evalSource(t, "만약 1 > 2 { 3 }")
	if val.Kind() != runtime.KindEmpty {
		t.Fatalf("expected empty, got %#v", val)
	}
	val, _ = evalSource(t, "만약 1 < 2 { 3 }")
	expectNumber(t, val, 3)
	val, _ = evalSource(t, "만약 1 < 2 { }")
	if val.Kind() != runtime.KindEmpty {
		t.Fatalf("empty arm should yield empty, got %#v", val)
	}
}

func TestCallDoesNotLeakBindings(t *testing.T) {
	src := `
x = 10
f = 함수(x) {
  y = x
  결과 x * 2
}
r = f(3)
`
	_, env := evalSource(t, src)
	expectNumber(t, lookup(t, env, "r"), 6)
	expectNumber(t, lookup(t, env, "x"), 10)
	if _, ok := env.Get("y"); ok {
		t.Fatalf("local y leaked into caller scope")
	}
}

func TestAssignmentInsideCallShadowsOuterBinding(t *testing.T) {
	_, env := evalSource(t, "x = 1 f = 함수() { x = 5 결과 x } inner = f()")
	expectNumber(t, lookup(t, env, "inner"), 5)
	expectNumber(t, lookup(t, env, "x"), 1)
}

func TestClosureOutlivesDefiningCall(t *testing.T) {
	src := `
만들기 = 함수(n) {
  결과 함수(m) { 결과 n + m }
}
더하기2 = 만들기(2)
더하기2(40)
`
	val, _ := evalSource(t, src)
	expectNumber(t, val, 42)
}

func TestScopingIsLexical(t *testing.T) {
	src := `
n = 1
f = 함수() { 결과 n }
g = 함수(n) { 결과 f() }
g(99)
`
	val, _ := evalSource(t, src)
	expectNumber(t, val, 1)
}

func TestClosureSeesLaterBindingsOfDefiningScope(t *testing.T) {
	val, _ := evalSource(t, "f = 함수() { 결과 later } later = 7 f()")
	expectNumber(t, val, 7)
}

func TestCurryingAndImmediateInvocation(t *testing.T) {
	val, _ := evalSource(t, "add = 함수(a) { 결과 함수(b) { 결과 a + b } } add(1)(2)")
	expectNumber(t, val, 3)
	val, _ = evalSource(t, "(함수(x) { 결과 x * x })(7)")
	expectNumber(t, val, 49)
}

func TestRecursion(t *testing.T) {
	src := `
fact = 함수(n) {
  만약 n <= 1 { 결과 1 }
  결과 n * fact(n - 1)
}
fact(10)
`
	val, _ := evalSource(t, src)
	expectNumber(t, val, 3628800)
}

func TestReturnPropagatesFromNestedBranches(t *testing.T) {
	src := "f = 함수(p) { 만약 p { 만약 참 { 결과 1 } } 결과 2 } "
	val, _ := evalSource(t, src+"f(참)")
	expectNumber(t, val, 1)
	val, _ = evalSource(t, src+"f(거짓)")
	expectNumber(t, val, 2)
}

func TestReturnShortCircuitsBlock(t *testing.T) {
	val, _ := evalSource(t, "f = 함수() { 결과 1 missing } f()")
	expectNumber(t, val, 1)
}

func TestArgumentsEvaluateLeftToRightInCallerScope(t *testing.T) {
	src := `
pick = 함수(a, b) { 결과 b }
pick(x = 1, x + 1)
`
	val, env := evalSource(t, src)
	expectNumber(t, val, 2)
	expectNumber(t, lookup(t, env, "x"), 1)
}

func TestValuesCarryProducingRange(t *testing.T) {
	val, _ := evalSource(t, "1 + 2 * 3")
	if got := val.Range(); got != ast.Rng(0, 0, 0, 8) {
		t.Fatalf("infix value range = %v", got)
	}
	val, _ = evalSource(t, "'문자'")
	if got := val.Range(); got != ast.Rng(0, 0, 0, 3) {
		t.Fatalf("string value range = %v", got)
	}
	val, _ = evalSource(t, "f = 함수() { 결과 1 }")
	if val.Kind() != runtime.KindFunction || val.Range() != ast.Rng(0, 4, 0, 16) {
		t.Fatalf("function value = %#v", val)
	}
}

func TestDisplayOfResults(t *testing.T) {
	cases := map[string]string{
		"참":                    "참",
		"1 > 2":                "거짓",
		"함수() { 결과 1 }":        "(함수)",
		"만약 거짓 { 1 }":          "(없음)",
		"'안녕'":                 "안녕",
		"1 / 4":                "0.25",
		"f = 함수(x) { 결과 x } f": "(함수)",
	}
	for src, want := range cases {
		val, _ := evalSource(t, src)
		if got := val.Display(); got != want {
			t.Fatalf("%q displays %q, want %q", src, got, want)
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	program := parseSource(t, `
counter = 함수(n) { 만약 n == 0 { 결과 'done' } 결과 counter(n - 1) }
x = 3
y = x * 2
counter(y)
`)
	interp := New()
	first, err := interp.Evaluate(program, runtime.NewEnvironment(nil))
	if err != nil {
		t.Fatalf("first evaluation: %v", err)
	}
	second, err := interp.Evaluate(program, runtime.NewEnvironment(nil))
	if err != nil {
		t.Fatalf("second evaluation: %v", err)
	}
	third, err := New().Evaluate(program, runtime.NewEnvironment(nil))
	if err != nil {
		t.Fatalf("third evaluation: %v", err)
	}
	if !runtime.Equal(first, second) || !runtime.Equal(first, third) {
		t.Fatalf("evaluations differ: %#v, %#v, %#v", first, second, third)
	}
}

func TestCallFunctionFromHost(t *testing.T) {
	val, _ := evalSource(t, "함수(a, b) { 결과 a * b }")
	fn := val.(*runtime.FunctionValue)
	out, err := New().CallFunction(fn, []runtime.Value{
		runtime.NewNumber(6, ast.Range{}),
		runtime.NewNumber(7, ast.Range{}),
	})
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	expectNumber(t, out, 42)
}

func TestLenientArityBindsUndefined(t *testing.T) {
	val, _ := evalSource(t, "f = 함수(a, b) { 결과 b } f(1)", WithStrictArity(false))
	if val.Kind() != runtime.KindUndefined || val.Display() != "(정의되지 않음)" {
		t.Fatalf("missing argument = %#v, want undefined", val)
	}
	val, _ = evalSource(t, "f = 함수(a) { 결과 a } f(1, 2)", WithStrictArity(false))
	expectNumber(t, val, 1)
}

func TestEvaluateFromDSLTree(t *testing.T) {
	program := ast.Prog(
		ast.Expr(ast.Assign(ast.ID("sq"), ast.Fn([]string{"n"}, ast.Ret(ast.Infix(ast.OpMultiply, ast.ID("n"), ast.ID("n")))))),
		ast.IfElse(ast.Infix(ast.OpGreater, ast.Call(ast.ID("sq"), ast.Num(3)), ast.Num(8)),
			ast.Blk(ast.Expr(ast.Assign(ast.ID("r"), ast.Str("big")))),
			ast.Blk(ast.Expr(ast.Assign(ast.ID("r"), ast.Str("small"))))),
		ast.Expr(ast.ID("r")),
	)
	val, err := New().Evaluate(program, runtime.NewEnvironment(nil))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if val.Display() != "big" {
		t.Fatalf("result = %#v", val)
	}
}
