package parser

import (
	"errors"
	"fmt"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/lexer"
	"gureum/interpreter-go/pkg/token"
)

// ErrorKind classifies syntax errors.
type ErrorKind int

const (
	// UnexpectedToken: the token cannot begin an expression.
	UnexpectedToken ErrorKind = iota
	// ExpectedToken: a structural token such as ")" or "}" is missing.
	ExpectedToken
	// NestingTooDeep: input nests deeper than the configured limit.
	NestingTooDeep
	// LexicalError: the scanner rejected the input.
	LexicalError
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected-token"
	case ExpectedToken:
		return "expected-token"
	case NestingTooDeep:
		return "nesting-too-deep"
	case LexicalError:
		return "lexical-error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SyntaxError is the single error family raised by the parser.
type SyntaxError struct {
	Kind     ErrorKind
	Message  string
	Range    ast.Range
	Found    token.Token
	Expected token.Kind
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Range.Begin, e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func unexpectedToken(found token.Token) *SyntaxError {
	msg := fmt.Sprintf("unexpected token %s", found)
	if found.Kind == token.EOF {
		msg = "unexpected end of input"
	}
	return &SyntaxError{Kind: UnexpectedToken, Message: msg, Range: found.Range, Found: found}
}

func expectedToken(want token.Kind, found token.Token) *SyntaxError {
	return &SyntaxError{
		Kind:     ExpectedToken,
		Message:  fmt.Sprintf("expected %q but found %s", want.String(), found),
		Range:    found.Range,
		Found:    found,
		Expected: want,
	}
}

func nestingTooDeep(at token.Token, limit int) *SyntaxError {
	return &SyntaxError{
		Kind:    NestingTooDeep,
		Message: fmt.Sprintf("nesting exceeds %d levels", limit),
		Range:   at.Range,
		Found:   at,
	}
}

func lexicalError(err error, fallback ast.Position) *SyntaxError {
	rng := ast.Range{Begin: fallback, End: fallback}
	msg := err.Error()
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		rng = lexErr.Range
		msg = lexErr.Message
	}
	return &SyntaxError{Kind: LexicalError, Message: msg, Range: rng, Err: err}
}
