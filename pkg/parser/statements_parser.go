package parser

import (
	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Kind {
	case token.Return:
		return p.parseReturnStatement()
	case token.If:
		return p.parseBranchStatement()
	default:
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return ast.WithRange(ast.NewExpressionStatement(expr), expr.Range()), nil
	}
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	keyword := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewReturnStatement(value), ast.Span(keyword.Range, value.Range())), nil
}

func (p *Parser) parseBranchStatement() (ast.Statement, error) {
	keyword := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	predicate, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	consequence, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := consequence.Range()
	var alternative *ast.Block
	if p.cur.Kind == token.Else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if alternative, err = p.parseBlock(); err != nil {
			return nil, err
		}
		end = alternative.Range()
	}
	branch := ast.NewBranchStatement(predicate, consequence, alternative)
	return ast.WithRange(branch, ast.Span(keyword.Range, end)), nil
}

// parseBlock parses "{" statements "}".
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	var statements []ast.Statement
	for p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.EOF {
			return nil, expectedToken(token.RBrace, p.cur)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	closing, err := p.expect(token.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.WithRange(ast.NewBlock(statements), ast.Span(open.Range, closing.Range)), nil
}
