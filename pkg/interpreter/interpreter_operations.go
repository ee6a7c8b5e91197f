package interpreter

import (
	"cmp"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

func applyPrefixOperator(op ast.Operator, operand runtime.Value, rng ast.Range) (runtime.Value, error) {
	switch v := operand.(type) {
	case runtime.NumberValue:
		switch op {
		case ast.OpPlus:
			return runtime.NewNumber(v.Val, rng), nil
		case ast.OpMinus:
			return runtime.NewNumber(-v.Val, rng), nil
		}
	case runtime.BooleanValue:
		if op == ast.OpNot {
			return runtime.NewBoolean(!v.Val, rng), nil
		}
	}
	return nil, newError(ErrBadPrefix, rng, "operator %q cannot be applied to %s", op, operand.Kind())
}

func applyInfixOperator(op ast.Operator, left, right runtime.Value, rng ast.Range) (runtime.Value, error) {
	if op.IsComparison() {
		if result, ok := compareValues(op, left, right); ok {
			return runtime.NewBoolean(result, rng), nil
		}
	} else if l, ok := left.(runtime.NumberValue); ok {
		if r, ok := right.(runtime.NumberValue); ok {
			if result, ok := arithmetic(op, l.Val, r.Val); ok {
				return runtime.NewNumber(result, rng), nil
			}
		}
	}
	return nil, newError(ErrBadInfix, rng, "operator %q cannot be applied to %s and %s", op, left.Kind(), right.Kind())
}

// arithmetic uses IEEE-754 semantics: division is true division and
// dividing by zero yields an infinity or NaN.
func arithmetic(op ast.Operator, a, b float64) (float64, bool) {
	switch op {
	case ast.OpPlus:
		return a + b, true
	case ast.OpMinus:
		return a - b, true
	case ast.OpMultiply:
		return a * b, true
	case ast.OpDivide:
		return a / b, true
	default:
		return 0, false
	}
}

// compareValues requires both operands to share one of the number, string
// or boolean kinds. Booleans order false before true.
func compareValues(op ast.Operator, left, right runtime.Value) (bool, bool) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return compareOrdered(op, l.Val, r.Val), true
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return compareOrdered(op, l.Val, r.Val), true
		}
	case runtime.BooleanValue:
		if r, ok := right.(runtime.BooleanValue); ok {
			return compareOrdered(op, boolRank(l.Val), boolRank(r.Val)), true
		}
	}
	return false, false
}

func compareOrdered[T cmp.Ordered](op ast.Operator, a, b T) bool {
	switch op {
	case ast.OpEqual:
		return a == b
	case ast.OpNotEqual:
		return a != b
	case ast.OpGreater:
		return a > b
	case ast.OpLess:
		return a < b
	case ast.OpGreaterEqual:
		return a >= b
	case ast.OpLessEqual:
		return a <= b
	default:
		return false
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
