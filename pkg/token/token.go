// Package token defines the lexical tokens exchanged between the scanner and
// the parser.
package token

import (
	"fmt"

	"gureum/interpreter-go/pkg/ast"
)

type Kind int

const (
	Illegal Kind = iota
	EOF

	Number
	String
	Identifier

	// Keywords.
	True
	False
	Function
	If
	Else
	Return

	// Operators.
	Plus
	Minus
	Asterisk
	Slash
	Bang
	Assign
	Equal
	NotEqual
	Greater
	Less
	GreaterEqual
	LessEqual

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	Comma
)

var kindNames = map[Kind]string{
	Illegal:      "illegal",
	EOF:          "end of input",
	Number:       "number",
	String:       "string",
	Identifier:   "identifier",
	True:         "참",
	False:        "거짓",
	Function:     "함수",
	If:           "만약",
	Else:         "아니면",
	Return:       "결과",
	Plus:         "+",
	Minus:        "-",
	Asterisk:     "*",
	Slash:        "/",
	Bang:         "!",
	Assign:       "=",
	Equal:        "==",
	NotEqual:     "!=",
	Greater:      ">",
	Less:         "<",
	GreaterEqual: ">=",
	LessEqual:    "<=",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	Comma:        ",",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the native spelling of each keyword to its kind.
var Keywords = map[string]Kind{
	"참":   True,
	"거짓":  False,
	"함수":  Function,
	"만약":  If,
	"아니면": Else,
	"결과":  Return,
}

// LookupIdentifier returns the keyword kind for word, or Identifier.
func LookupIdentifier(word string) Kind {
	if kind, ok := Keywords[word]; ok {
		return kind
	}
	return Identifier
}

// IsKeyword reports whether k is one of the reserved word kinds.
func (k Kind) IsKeyword() bool {
	return k >= True && k <= Return
}

type Token struct {
	Kind    Kind
	Literal string
	Range   ast.Range
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Number, String, Identifier:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}

// Stream yields tokens one at a time. Once EOF is produced every further
// call returns EOF again.
type Stream interface {
	Next() (Token, error)
}

// SliceStream replays a fixed token sequence.
type SliceStream struct {
	tokens []Token
	pos    int
	eof    Token
}

// NewSliceStream returns a stream over tokens. A trailing EOF token is
// synthesized after the last element when tokens does not end with one.
func NewSliceStream(tokens []Token) *SliceStream {
	eof := Token{Kind: EOF}
	if n := len(tokens); n > 0 {
		if tokens[n-1].Kind == EOF {
			eof = tokens[n-1]
			tokens = tokens[:n-1]
		} else {
			end := tokens[n-1].Range.End
			end.Col++
			eof.Range = ast.Range{Begin: end, End: end}
		}
	}
	return &SliceStream{tokens: tokens, eof: eof}
}

func (s *SliceStream) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return s.eof, nil
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
