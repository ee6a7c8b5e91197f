package interpreter

import (
	"fmt"

	"fortio.org/log"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		return i.evaluateExpression(n.Expression, env)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, env)
	case *ast.BranchStatement:
		return i.evaluateBranchStatement(n, env)
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

// evaluateBlock runs statements in env itself; blocks never open a scope.
// A ReturnValue short-circuits the block and is handed back unchanged.
func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NewEmpty(block.Range())
	for _, stmt := range block.Statements {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		if _, ok := val.(runtime.ReturnValue); ok {
			return val, nil
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	return runtime.ReturnValue{Value: val, Loc: stmt.Range()}, nil
}

func (i *Interpreter) evaluateBranchStatement(stmt *ast.BranchStatement, env *runtime.Environment) (runtime.Value, error) {
	pred, err := i.evaluateExpression(stmt.Predicate, env)
	if err != nil {
		return nil, err
	}
	cond, ok := pred.(runtime.BooleanValue)
	if !ok {
		return nil, newError(ErrBadPredicate, stmt.Predicate.Range(),
			"branch predicate must be a boolean, got %s", pred.Kind())
	}
	log.LogVf("interpreter: branch at %s takes %v", stmt.Range().Begin, cond.Val)
	if cond.Val {
		return i.evaluateBlock(stmt.Consequence, env)
	}
	if stmt.Alternative != nil {
		return i.evaluateBlock(stmt.Alternative, env)
	}
	return runtime.NewEmpty(stmt.Range()), nil
}
