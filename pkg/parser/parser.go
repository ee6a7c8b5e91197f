package parser

import (
	"fortio.org/log"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/lexer"
	"gureum/interpreter-go/pkg/token"
)

// DefaultMaxDepth bounds expression and block nesting. Deeper input is
// reported as a NestingTooDeep syntax error rather than exhausting the stack.
const DefaultMaxDepth = 4096

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth. Zero or negative disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) { p.maxDepth = depth }
}

// Parser builds a Program from a token stream with one token of lookahead.
// A Parser is single use.
type Parser struct {
	stream   token.Stream
	cur      token.Token
	depth    int
	maxDepth int
}

// New constructs a parser reading from stream.
func New(stream token.Stream, opts ...Option) *Parser {
	p := &Parser{stream: stream, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse consumes stream and returns the program it spells.
func Parse(stream token.Stream, opts ...Option) (*ast.Program, error) {
	return New(stream, opts...).ParseProgram()
}

// ParseString scans and parses src.
func ParseString(src string, opts ...Option) (*ast.Program, error) {
	return Parse(lexer.New(src), opts...)
}

// ParseProgram parses statements until end of input. The first error aborts.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var statements []ast.Statement
	for p.cur.Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	program := ast.NewProgram(statements)
	if n := len(statements); n > 0 {
		ast.SetRange(program, ast.Span(statements[0].Range(), statements[n-1].Range()))
	}
	log.LogVf("parser: %d top-level statements", len(statements))
	return program, nil
}

// advance moves the lookahead forward by one token.
func (p *Parser) advance() error {
	tok, err := p.stream.Next()
	if err != nil {
		return lexicalError(err, p.cur.Range.End)
	}
	p.cur = tok
	return nil
}

// expect consumes the lookahead when it has the given kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur.Kind != kind {
		return token.Token{}, expectedToken(kind, p.cur)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) enter() error {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		return nestingTooDeep(p.cur, p.maxDepth)
	}
	p.depth++
	return nil
}

func (p *Parser) leave() { p.depth-- }
