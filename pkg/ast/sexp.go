package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp renders node as a compact S-expression, e.g. "(= x (+ 1 2))".
// Program statements are separated by newlines.
func Sexp(node Node) string {
	var b strings.Builder
	writeSexp(&b, node)
	return b.String()
}

func writeSexp(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Program:
		for i, stmt := range n.Statements {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeSexp(b, stmt)
		}
	case *Block:
		b.WriteByte('{')
		for i, stmt := range n.Statements {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeSexp(b, stmt)
		}
		b.WriteByte('}')
	case *ExpressionStatement:
		writeSexp(b, n.Expression)
	case *ReturnStatement:
		b.WriteString("(return ")
		writeSexp(b, n.Value)
		b.WriteByte(')')
	case *BranchStatement:
		b.WriteString("(if ")
		writeSexp(b, n.Predicate)
		b.WriteByte(' ')
		writeSexp(b, n.Consequence)
		if n.Alternative != nil {
			b.WriteByte(' ')
			writeSexp(b, n.Alternative)
		}
		b.WriteByte(')')
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *BooleanLiteral:
		if n.Value {
			b.WriteString("참")
		} else {
			b.WriteString("거짓")
		}
	case *StringLiteral:
		b.WriteByte('\'')
		b.WriteString(n.Value)
		b.WriteByte('\'')
	case *Identifier:
		b.WriteString(n.Name)
	case *PrefixExpression:
		fmt.Fprintf(b, "(%s ", n.Operator)
		writeSexp(b, n.Operand)
		b.WriteByte(')')
	case *InfixExpression:
		fmt.Fprintf(b, "(%s ", n.Operator)
		writeSexp(b, n.Left)
		b.WriteByte(' ')
		writeSexp(b, n.Right)
		b.WriteByte(')')
	case *AssignmentExpression:
		b.WriteString("(= ")
		writeSexp(b, n.Left)
		b.WriteByte(' ')
		writeSexp(b, n.Right)
		b.WriteByte(')')
	case *FunctionLiteral:
		b.WriteString("(fn [")
		for i, param := range n.Parameters {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeSexp(b, param)
		}
		b.WriteString("] ")
		writeSexp(b, n.Body)
		b.WriteByte(')')
	case *CallExpression:
		b.WriteString("(call ")
		writeSexp(b, n.Callee)
		for _, arg := range n.Arguments {
			b.WriteByte(' ')
			writeSexp(b, arg)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}
