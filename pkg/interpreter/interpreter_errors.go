package interpreter

import (
	"errors"
	"fmt"

	"gureum/interpreter-go/pkg/ast"
)

// Sentinels identifying each evaluation error kind. Match them with
// errors.Is against the *Error returned by the interpreter.
var (
	ErrTopLevelReturn      = errors.New("top-level-return")
	ErrBadPredicate        = errors.New("bad-predicate")
	ErrBadAssignmentTarget = errors.New("bad-assignment-target")
	ErrBadPrefix           = errors.New("bad-prefix-operation")
	ErrBadInfix            = errors.New("bad-infix-operation")
	ErrUnboundIdentifier   = errors.New("unbound-identifier")
	ErrNotCallable         = errors.New("not-callable")
	ErrMissingReturn       = errors.New("missing-return")
	ErrArity               = errors.New("arity-mismatch")
	ErrCallDepth           = errors.New("call-depth-exceeded")
)

// ErrorKinds lists every sentinel, keyed by its code.
var ErrorKinds = map[string]error{}

func init() {
	for _, kind := range []error{
		ErrTopLevelReturn, ErrBadPredicate, ErrBadAssignmentTarget, ErrBadPrefix, ErrBadInfix,
		ErrUnboundIdentifier, ErrNotCallable, ErrMissingReturn, ErrArity, ErrCallDepth,
	} {
		ErrorKinds[kind.Error()] = kind
	}
}

// Error is an evaluation failure tied to the node that caused it.
type Error struct {
	Kind    error
	Message string
	Range   ast.Range
}

func newError(kind error, rng ast.Range, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Range: rng}
}

func (e *Error) Error() string {
	return fmt.Sprintf("evaluation error at %s: %s", e.Range.Begin, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

// Code is the stable short name of the error kind, e.g. "bad-infix-operation".
func (e *Error) Code() string {
	if e.Kind == nil {
		return ""
	}
	return e.Kind.Error()
}
