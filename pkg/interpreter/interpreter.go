package interpreter

import (
	"fortio.org/log"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested function calls. Deeper recursion fails
// with ErrCallDepth instead of exhausting the Go stack.
const DefaultMaxCallDepth = 2048

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStrictArity controls how calls with the wrong number of arguments are
// handled. Strict (the default) fails with ErrArity. Lenient binds missing
// parameters to runtime.UndefinedValue and ignores extra arguments.
func WithStrictArity(strict bool) Option {
	return func(i *Interpreter) { i.strictArity = strict }
}

// WithMaxCallDepth overrides DefaultMaxCallDepth. Zero or negative disables
// the limit.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) { i.maxCallDepth = depth }
}

// Interpreter walks Gureum syntax trees. All bindings live in the
// environment handed to Evaluate; the interpreter itself only tracks call
// depth, so it must not be shared between goroutines mid-evaluation.
type Interpreter struct {
	strictArity  bool
	maxCallDepth int
	callDepth    int
}

// New returns an interpreter with strict arity and the default call depth.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{strictArity: true, maxCallDepth: DefaultMaxCallDepth}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Evaluate executes program against env and returns the value of the last
// statement, or Empty for an empty program. A return statement reaching the
// top level fails with ErrTopLevelReturn.
func (i *Interpreter) Evaluate(program *ast.Program, env *runtime.Environment) (runtime.Value, error) {
	i.callDepth = 0
	var last runtime.Value = runtime.NewEmpty(program.Range())
	for _, stmt := range program.Statements {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		if ret, ok := val.(runtime.ReturnValue); ok {
			return nil, newError(ErrTopLevelReturn, ret.Range(), "return statement outside of a function")
		}
		last = val
	}
	log.LogVf("interpreter: program finished with %s", last.Kind())
	return last, nil
}

// CallFunction invokes fn with already evaluated arguments, as a call
// expression would. The call is attributed to fn's own range.
func (i *Interpreter) CallFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	return i.invokeFunction(fn, args, fn.Range())
}
