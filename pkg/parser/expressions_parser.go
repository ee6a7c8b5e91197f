package parser

import (
	"fmt"
	"strconv"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/token"
)

// Binding powers, lowest first.
const (
	precLowest = iota
	precAssign
	precCompare
	precSum
	precProduct
	precPrefix
	precCall
)

var infixPrecedence = map[token.Kind]int{
	token.Assign:       precAssign,
	token.Equal:        precCompare,
	token.NotEqual:     precCompare,
	token.Greater:      precCompare,
	token.Less:         precCompare,
	token.GreaterEqual: precCompare,
	token.LessEqual:    precCompare,
	token.Plus:         precSum,
	token.Minus:        precSum,
	token.Asterisk:     precProduct,
	token.Slash:        precProduct,
	token.LParen:       precCall,
}

var infixOperators = map[token.Kind]ast.Operator{
	token.Equal:        ast.OpEqual,
	token.NotEqual:     ast.OpNotEqual,
	token.Greater:      ast.OpGreater,
	token.Less:         ast.OpLess,
	token.GreaterEqual: ast.OpGreaterEqual,
	token.LessEqual:    ast.OpLessEqual,
	token.Plus:         ast.OpPlus,
	token.Minus:        ast.OpMinus,
	token.Asterisk:     ast.OpMultiply,
	token.Slash:        ast.OpDivide,
}

var prefixOperators = map[token.Kind]ast.Operator{
	token.Plus:  ast.OpPlus,
	token.Minus: ast.OpMinus,
	token.Bang:  ast.OpNot,
}

// rightAssociative reports whether op groups to the right. Equality does;
// the relational operators share its tier but group to the left, so
// "x <= y == z" is "(x <= y) == z" and "a == b == c" is "a == (b == c)".
func rightAssociative(op ast.Operator) bool {
	return op == ast.OpEqual || op == ast.OpNotEqual
}

// parseExpression parses operators binding tighter than minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := infixPrecedence[p.cur.Kind]
		if !ok || prec <= minPrec {
			return left, nil
		}
		switch p.cur.Kind {
		case token.LParen:
			left, err = p.parseCall(left)
		case token.Assign:
			left, err = p.parseAssignment(left)
		default:
			left, err = p.parseInfix(left, prec)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	tok := p.cur
	switch tok.Kind {
	case token.Number:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &SyntaxError{
				Kind:    UnexpectedToken,
				Message: fmt.Sprintf("invalid number literal %q", tok.Literal),
				Range:   tok.Range,
				Found:   tok,
			}
		}
		return p.leaf(ast.NewNumberLiteral(value), tok)
	case token.String:
		return p.leaf(ast.NewStringLiteral(tok.Literal), tok)
	case token.True, token.False:
		return p.leaf(ast.NewBooleanLiteral(tok.Kind == token.True), tok)
	case token.Identifier:
		return p.leaf(ast.NewIdentifier(tok.Literal), tok)
	case token.LParen:
		return p.parseGroup()
	case token.Function:
		return p.parseFunctionLiteral()
	}
	if op, ok := prefixOperators[tok.Kind]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}
		return ast.WithRange(ast.NewPrefixExpression(op, operand), ast.Span(tok.Range, operand.Range())), nil
	}
	return nil, unexpectedToken(tok)
}

// leaf consumes tok and attaches its range to expr.
func (p *Parser) leaf(expr ast.Expression, tok token.Token) (ast.Expression, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	ast.SetRange(expr, tok.Range)
	return expr, nil
}

func (p *Parser) parseInfix(left ast.Expression, prec int) (ast.Expression, error) {
	op := infixOperators[p.cur.Kind]
	if err := p.advance(); err != nil {
		return nil, err
	}
	next := prec
	if rightAssociative(op) {
		next = prec - 1
	}
	right, err := p.parseExpression(next)
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewInfixExpression(op, left, right), ast.Span(left.Range(), right.Range())), nil
}

func (p *Parser) parseAssignment(left ast.Expression) (ast.Expression, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(precAssign - 1)
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewAssignmentExpression(left, right), ast.Span(left.Range(), right.Range())), nil
}

// parseGroup returns the inner expression with its range widened to the
// enclosing parentheses.
func (p *Parser) parseGroup() (ast.Expression, error) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	closing, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	ast.SetRange(inner, ast.Span(open.Range, closing.Range))
	return inner, nil
}

func (p *Parser) parseCall(callee ast.Expression) (ast.Expression, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.cur.Kind != token.RParen {
		for {
			arg, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind != token.Comma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	closing, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewCallExpression(callee, args), ast.Span(callee.Range(), closing.Range)), nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	keyword := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if p.cur.Kind != token.RParen {
		for {
			tok, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.WithRange(ast.NewIdentifier(tok.Literal), tok.Range))
			if p.cur.Kind != token.Comma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewFunctionLiteral(params, body), ast.Span(keyword.Range, body.Range())), nil
}
