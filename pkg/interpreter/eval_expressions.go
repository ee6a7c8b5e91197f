package interpreter

import (
	"fmt"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NewNumber(n.Value, n.Range()), nil
	case *ast.BooleanLiteral:
		return runtime.NewBoolean(n.Value, n.Range()), nil
	case *ast.StringLiteral:
		return runtime.NewString(n.Value, n.Range()), nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.PrefixExpression:
		return i.evaluatePrefixExpression(n, env)
	case *ast.InfixExpression:
		return i.evaluateInfixExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignmentExpression(n, env)
	case *ast.FunctionLiteral:
		return runtime.NewFunction(n, env), nil
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	val, ok := env.Get(id.Name)
	if !ok {
		return nil, newError(ErrUnboundIdentifier, id.Range(), "identifier %q is not bound", id.Name)
	}
	return val, nil
}

func (i *Interpreter) evaluatePrefixExpression(expr *ast.PrefixExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	return applyPrefixOperator(expr.Operator, operand, expr.Range())
}

func (i *Interpreter) evaluateInfixExpression(expr *ast.InfixExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyInfixOperator(expr.Operator, left, right, expr.Range())
}

// evaluateAssignmentExpression binds in env itself, never in an ancestor.
func (i *Interpreter) evaluateAssignmentExpression(assign *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	target, ok := assign.Left.(*ast.Identifier)
	if !ok {
		return nil, newError(ErrBadAssignmentTarget, assign.Range(),
			"cannot assign to %s, only to an identifier", assign.Left.NodeType())
	}
	val, err := i.evaluateExpression(assign.Right, env)
	if err != nil {
		return nil, err
	}
	env.Set(target.Name, val)
	return val, nil
}
