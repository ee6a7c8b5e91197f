// Package typechecker reports Gureum code that fails whenever it runs,
// without evaluating it. Code that may never run, such as an untaken branch
// or a function nobody calls, is still reported. Diagnostic codes match the
// interpreter's error codes so a report can be compared with an actual run.
package typechecker

import (
	"fmt"
	"sort"

	"fortio.org/log"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/interpreter"
)

// CodeUnreachable flags statements that follow a return in the same block.
// It is the only code with no evaluation error counterpart.
const CodeUnreachable = "unreachable-code"

// Checker traverses Gureum syntax trees and records diagnostics.
type Checker struct {
	strictArity bool

	// bound holds every name assigned or declared as a parameter anywhere in
	// the program. A function body may read any of them, since its closure
	// can gain or change bindings after the function is created.
	bound   map[string]bool
	fnDepth int
	diags   []Diagnostic
}

// Diagnostic is a statically detected problem.
type Diagnostic struct {
	Code    string
	Message string
	Node    ast.Node
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %s: %s", d.Code, d.Node.Range().Begin, d.Message)
}

// Range is the source range of the offending node.
func (d Diagnostic) Range() ast.Range { return d.Node.Range() }

// Option configures a Checker.
type Option func(*Checker)

// WithStrictArity mirrors interpreter.WithStrictArity: when false, calls with
// the wrong number of arguments are not reported.
func WithStrictArity(strict bool) Option {
	return func(c *Checker) { c.strictArity = strict }
}

// New returns a checker instance.
func New(opts ...Option) *Checker {
	c := &Checker{strictArity: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckProgram returns the diagnostics for program ordered by position.
func (c *Checker) CheckProgram(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("typechecker: program is nil")
	}
	c.bound = collectBoundNames(program)
	c.fnDepth = 0
	c.diags = nil

	c.checkStatements(NewEnvironment(), program.Statements)

	diags := c.diags
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Range().Begin.Before(diags[j].Range().Begin)
	})
	log.LogVf("typechecker: %d diagnostics", len(diags))
	return diags, nil
}

func (c *Checker) report(code error, node ast.Node, format string, args ...any) {
	c.reportCode(code.Error(), node, format, args...)
}

func (c *Checker) reportCode(code string, node ast.Node, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Node: node})
}

// checkStatements reports whether the statements certainly return.
func (c *Checker) checkStatements(env *Environment, stmts []ast.Statement) bool {
	for idx, stmt := range stmts {
		if c.checkStatement(env, stmt) {
			if idx+1 < len(stmts) {
				c.reportCode(CodeUnreachable, stmts[idx+1], "statement after a return is never evaluated")
			}
			return true
		}
	}
	return false
}

func (c *Checker) checkStatement(env *Environment, stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c.checkExpression(env, s.Expression)
		return false
	case *ast.ReturnStatement:
		c.checkExpression(env, s.Value)
		if c.fnDepth == 0 {
			c.report(interpreter.ErrTopLevelReturn, s, "return statement outside of a function")
		}
		return true
	case *ast.BranchStatement:
		return c.checkBranch(env, s)
	default:
		return false
	}
}

func (c *Checker) checkBranch(env *Environment, s *ast.BranchStatement) bool {
	pred := c.checkExpression(env, s.Predicate)
	if pred.typ.known() && pred.typ != TypeBoolean {
		c.report(interpreter.ErrBadPredicate, s.Predicate, "branch predicate must be a boolean, got %s", pred.typ.Name())
	}
	consEnv := env.fork()
	consReturns := c.checkStatements(consEnv, s.Consequence.Statements)
	altEnv := env.fork()
	altReturns := false
	if s.Alternative != nil {
		altReturns = c.checkStatements(altEnv, s.Alternative.Statements)
	}
	switch {
	case consReturns && !altReturns:
		env.symbols = altEnv.symbols
	case altReturns && !consReturns:
		env.symbols = consEnv.symbols
	default:
		env.join(consEnv, altEnv)
	}
	return consReturns && altReturns
}

func (c *Checker) checkExpression(env *Environment, expr ast.Expression) binding {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return binding{typ: TypeNumber, arity: -1}
	case *ast.BooleanLiteral:
		return binding{typ: TypeBoolean, arity: -1}
	case *ast.StringLiteral:
		return binding{typ: TypeString, arity: -1}
	case *ast.Identifier:
		return c.checkIdentifier(env, e)
	case *ast.PrefixExpression:
		return c.checkPrefix(env, e)
	case *ast.InfixExpression:
		return c.checkInfix(env, e)
	case *ast.AssignmentExpression:
		right := c.checkExpression(env, e.Right)
		target, ok := e.Left.(*ast.Identifier)
		if !ok {
			c.checkExpression(env, e.Left)
			c.report(interpreter.ErrBadAssignmentTarget, e, "cannot assign to %s, only to an identifier", e.Left.NodeType())
			return right
		}
		env.define(target.Name, right)
		return right
	case *ast.FunctionLiteral:
		c.checkFunction(e)
		return binding{typ: TypeFunction, arity: len(e.Parameters)}
	case *ast.CallExpression:
		return c.checkCall(env, e)
	default:
		return unknownBinding
	}
}

func (c *Checker) checkIdentifier(env *Environment, id *ast.Identifier) binding {
	if b, ok := env.lookup(id.Name); ok {
		return b
	}
	if c.fnDepth > 0 && c.bound[id.Name] {
		return unknownBinding
	}
	c.report(interpreter.ErrUnboundIdentifier, id, "identifier %q is not bound", id.Name)
	return unknownBinding
}

func (c *Checker) checkPrefix(env *Environment, e *ast.PrefixExpression) binding {
	operand := c.checkExpression(env, e.Operand)
	want := TypeNumber
	if e.Operator == ast.OpNot {
		want = TypeBoolean
	}
	if operand.typ.known() && operand.typ != want {
		c.report(interpreter.ErrBadPrefix, e, "operator %q cannot be applied to %s", e.Operator, operand.typ.Name())
	}
	return binding{typ: want, arity: -1}
}

func (c *Checker) checkInfix(env *Environment, e *ast.InfixExpression) binding {
	left := c.checkExpression(env, e.Left).typ
	right := c.checkExpression(env, e.Right).typ
	if e.Operator.IsComparison() {
		mismatch := left.known() && right.known() && left != right
		if mismatch || (left.known() && !ordered(left)) || (right.known() && !ordered(right)) {
			c.report(interpreter.ErrBadInfix, e, "operator %q cannot be applied to %s and %s", e.Operator, left.Name(), right.Name())
		}
		return binding{typ: TypeBoolean, arity: -1}
	}
	if (left.known() && left != TypeNumber) || (right.known() && right != TypeNumber) {
		c.report(interpreter.ErrBadInfix, e, "operator %q cannot be applied to %s and %s", e.Operator, left.Name(), right.Name())
	}
	return binding{typ: TypeNumber, arity: -1}
}

// ordered lists the kinds comparison operators accept.
func ordered(t Type) bool {
	return t == TypeNumber || t == TypeString || t == TypeBoolean
}

// checkFunction checks the body in a scope detached from env: a closure sees
// its defining scope as it is at call time, so free names are unknown.
func (c *Checker) checkFunction(fn *ast.FunctionLiteral) {
	local := NewEnvironment()
	for _, param := range fn.Parameters {
		local.define(param.Name, unknownBinding)
	}
	c.fnDepth++
	returns := c.checkStatements(local, fn.Body.Statements)
	c.fnDepth--
	if !returns && !containsReturn(fn.Body.Statements) {
		c.report(interpreter.ErrMissingReturn, fn, "function body has no return statement")
	}
}

func (c *Checker) checkCall(env *Environment, call *ast.CallExpression) binding {
	callee := c.checkExpression(env, call.Callee)
	for _, arg := range call.Arguments {
		c.checkExpression(env, arg)
	}
	if callee.typ.known() && callee.typ != TypeFunction {
		c.report(interpreter.ErrNotCallable, call.Callee, "cannot call a %s value", callee.typ.Name())
	} else if c.strictArity && callee.arity >= 0 && callee.arity != len(call.Arguments) {
		c.report(interpreter.ErrArity, call, "function expects %d arguments, got %d", callee.arity, len(call.Arguments))
	}
	return unknownBinding
}

// containsReturn reports whether any return statement appears in stmts
// outside nested function literals.
func containsReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStatement:
			return true
		case *ast.BranchStatement:
			if containsReturn(s.Consequence.Statements) {
				return true
			}
			if s.Alternative != nil && containsReturn(s.Alternative.Statements) {
				return true
			}
		}
	}
	return false
}

func collectBoundNames(program *ast.Program) map[string]bool {
	names := make(map[string]bool)
	var visit func(node ast.Node)
	visit = func(node ast.Node) {
		switch n := node.(type) {
		case *ast.Program:
			for _, stmt := range n.Statements {
				visit(stmt)
			}
		case *ast.Block:
			for _, stmt := range n.Statements {
				visit(stmt)
			}
		case *ast.ExpressionStatement:
			visit(n.Expression)
		case *ast.ReturnStatement:
			visit(n.Value)
		case *ast.BranchStatement:
			visit(n.Predicate)
			visit(n.Consequence)
			if n.Alternative != nil {
				visit(n.Alternative)
			}
		case *ast.PrefixExpression:
			visit(n.Operand)
		case *ast.InfixExpression:
			visit(n.Left)
			visit(n.Right)
		case *ast.AssignmentExpression:
			if id, ok := n.Left.(*ast.Identifier); ok {
				names[id.Name] = true
			}
			visit(n.Left)
			visit(n.Right)
		case *ast.FunctionLiteral:
			for _, param := range n.Parameters {
				names[param.Name] = true
			}
			visit(n.Body)
		case *ast.CallExpression:
			visit(n.Callee)
			for _, arg := range n.Arguments {
				visit(arg)
			}
		}
	}
	visit(program)
	return names
}
