// Package lexer turns Gureum source text into tokens.
package lexer

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/token"
)

// Error reports a character sequence that does not form a token.
type Error struct {
	Message string
	Range   ast.Range
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Range.Begin)
}

// Lexer scans source text on demand. It implements token.Stream.
type Lexer struct {
	src []rune
	pos int
	row int
	col int
}

// New returns a lexer over src. The text is NFC-normalized first so that
// decomposed Hangul spells the same identifiers as precomposed syllables.
func New(src string) *Lexer {
	return &Lexer{src: []rune(norm.NFC.String(src))}
}

// Tokenize scans all of src, including the trailing EOF token.
func Tokenize(src string) ([]token.Token, error) {
	lx := New(src)
	var out []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func (l *Lexer) Next() (token.Token, error) {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		here := l.here()
		return token.Token{Kind: token.EOF, Range: ast.Range{Begin: here, End: here}}, nil
	}

	begin := l.here()
	r := l.advance()
	switch {
	case r == '\'' || r == '"':
		return l.scanString(r, begin)
	case isDigit(r):
		return l.scanNumber(begin), nil
	case isIdentStart(r):
		return l.scanWord(begin), nil
	}

	if kind, ok := twoRuneOperators[[2]rune{r, l.peek()}]; ok {
		l.advance()
		return l.emit(kind, begin), nil
	}
	if kind, ok := singleRuneTokens[r]; ok {
		return l.emit(kind, begin), nil
	}
	return token.Token{}, &Error{
		Message: fmt.Sprintf("unexpected character %q", r),
		Range:   ast.Range{Begin: begin, End: begin},
	}
}

var twoRuneOperators = map[[2]rune]token.Kind{
	{'=', '='}: token.Equal,
	{'!', '='}: token.NotEqual,
	{'>', '='}: token.GreaterEqual,
	{'<', '='}: token.LessEqual,
}

var singleRuneTokens = map[rune]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Asterisk,
	'/': token.Slash,
	'!': token.Bang,
	'=': token.Assign,
	'>': token.Greater,
	'<': token.Less,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
}

func (l *Lexer) scanNumber(begin ast.Position) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.emit(token.Number, begin)
}

func (l *Lexer) scanWord(begin ast.Position) token.Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	tok := l.emit(token.Identifier, begin)
	tok.Kind = token.LookupIdentifier(tok.Literal)
	return tok
}

func (l *Lexer) scanString(quote rune, begin ast.Position) (token.Token, error) {
	start := l.pos
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return token.Token{}, &Error{
				Message: "unterminated string literal",
				Range:   ast.Range{Begin: begin, End: l.last()},
			}
		}
		if l.src[l.pos] == quote {
			break
		}
		l.advance()
	}
	body := string(l.src[start:l.pos])
	l.advance()
	return token.Token{Kind: token.String, Literal: body, Range: ast.Range{Begin: begin, End: l.last()}}, nil
}

// emit builds a token whose literal runs from begin to the current offset.
func (l *Lexer) emit(kind token.Kind, begin ast.Position) token.Token {
	width := l.col - begin.Col
	literal := string(l.src[l.pos-width : l.pos])
	return token.Token{Kind: kind, Literal: literal, Range: ast.Range{Begin: begin, End: l.last()}}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case unicode.IsSpace(r):
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.row++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune { return l.peekAt(0) }

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) here() ast.Position {
	return ast.Position{Row: l.row, Col: l.col}
}

// last is the position of the most recently consumed character, which is
// never a newline for tokens.
func (l *Lexer) last() ast.Position {
	return ast.Position{Row: l.row, Col: l.col - 1}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }
