package driver

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/lexer"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/typechecker"
)

// Diagnostic is a ranged failure extracted from a parse, check or
// evaluation error.
type Diagnostic struct {
	Code    string
	Message string
	Range   ast.Range
}

// DiagnosticFor finds the ranged error inside err's chain.
func DiagnosticFor(err error) (Diagnostic, bool) {
	var evalErr *interpreter.Error
	if errors.As(err, &evalErr) {
		return Diagnostic{Code: evalErr.Code(), Message: evalErr.Message, Range: evalErr.Range}, true
	}
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Diagnostic{Code: syntaxErr.Kind.String(), Message: syntaxErr.Message, Range: syntaxErr.Range}, true
	}
	var checkDiag typechecker.Diagnostic
	if errors.As(err, &checkDiag) {
		return Diagnostic{Code: checkDiag.Code, Message: checkDiag.Message, Range: checkDiag.Range()}, true
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return Diagnostic{Code: parser.LexicalError.String(), Message: lexErr.Message, Range: lexErr.Range}, true
	}
	return Diagnostic{}, false
}

// Diagnose renders err as "name:row:col: error[code]: message" followed by
// the offending source line and an underline spanning the range. Rows and
// columns are printed one-based. Errors without a range render as-is.
func Diagnose(err error, src *Source) string {
	if err == nil {
		return ""
	}
	diag, ok := DiagnosticFor(err)
	if !ok {
		return err.Error()
	}
	name := "<input>"
	if src != nil && src.Name != "" {
		name = src.Name
	}
	begin := diag.Range.Begin
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: error[%s]: %s", name, begin.Row+1, begin.Col+1, diag.Code, diag.Message)
	if src == nil {
		return b.String()
	}
	lines := strings.Split(src.Text, "\n")
	if begin.Row < 0 || begin.Row >= len(lines) {
		return b.String()
	}
	line := strings.TrimRight(lines[begin.Row], "\r")
	b.WriteString("\n  ")
	b.WriteString(line)
	b.WriteString("\n  ")
	b.WriteString(underline(line, diag.Range))
	return b.String()
}

// underline marks the range on its first row with a caret followed by
// tildes. Wide runes such as Hangul syllables take two cells.
func underline(line string, rng ast.Range) string {
	runes := []rune(line)
	endCol := rng.End.Col
	if rng.End.Row != rng.Begin.Row || endCol >= len(runes) {
		endCol = len(runes) - 1
	}
	var b strings.Builder
	for col := 0; col < rng.Begin.Col && col < len(runes); col++ {
		if runes[col] == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", cells(runes[col])))
	}
	b.WriteByte('^')
	if rng.Begin.Col < len(runes) {
		b.WriteString(strings.Repeat("~", cells(runes[rng.Begin.Col])-1))
	}
	for col := rng.Begin.Col + 1; col <= endCol; col++ {
		b.WriteString(strings.Repeat("~", cells(runes[col])))
	}
	return b.String()
}

func cells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
