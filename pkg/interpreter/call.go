package interpreter

import (
	"fortio.org/log"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateCallExpression(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, newError(ErrNotCallable, call.Callee.Range(), "cannot call a %s value", callee.Kind())
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.invokeFunction(fn, args, call.Range())
}

// invokeFunction runs fn's body in a fresh child of its captured scope. The
// caller's environment plays no part.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, callRange ast.Range) (runtime.Value, error) {
	if i.strictArity && len(args) != len(fn.Parameters) {
		return nil, newError(ErrArity, callRange, "function expects %d arguments, got %d", len(fn.Parameters), len(args))
	}
	if i.maxCallDepth > 0 && i.callDepth >= i.maxCallDepth {
		return nil, newError(ErrCallDepth, callRange, "call depth exceeds %d", i.maxCallDepth)
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	local := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Parameters {
		if idx < len(args) {
			local.Set(param.Name, args[idx])
			continue
		}
		local.Set(param.Name, runtime.UndefinedValue{Loc: callRange})
	}
	log.LogVf("interpreter: call at %s with %d arguments (depth %d)", callRange.Begin, len(args), i.callDepth)

	result, err := i.evaluateBlock(fn.Body, local)
	if err != nil {
		return nil, err
	}
	ret, ok := result.(runtime.ReturnValue)
	if !ok {
		return nil, newError(ErrMissingReturn, callRange,
			"function defined at %s finished without a return", fn.Range().Begin)
	}
	return ret.Value, nil
}
