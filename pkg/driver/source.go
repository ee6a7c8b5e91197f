package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"golang.org/x/text/unicode/norm"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/runtime"
	"gureum/interpreter-go/pkg/typechecker"
)

const (
	// SourceExtension is the file extension of Gureum programs.
	SourceExtension = ".gr"
	// TreeExtension marks a syntax tree saved by "gureum parse --json".
	TreeExtension = ".json"
)

// Source is a named program text. Text is NFC-normalized so that ranges
// reported by the parser index the same runes Diagnose prints.
type Source struct {
	Name string
	Text string
}

// NewSource wraps in-memory text, e.g. a REPL entry or a fixture case.
func NewSource(name, text string) *Source {
	return &Source{Name: name, Text: norm.NFC.String(text)}
}

// LoadSource reads a program from disk.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", path, err)
	}
	name := path
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
			name = rel
		}
	}
	log.LogVf("driver: loaded %s (%d bytes)", name, len(data))
	return NewSource(name, string(data)), nil
}

// Parse parses the source text into a program. Sources named *.json hold
// an encoded syntax tree and are decoded instead.
func (s *Source) Parse(opts ...parser.Option) (*ast.Program, error) {
	if strings.HasSuffix(s.Name, TreeExtension) {
		program, err := ast.DecodeJSON([]byte(s.Text))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		return program, nil
	}
	program, err := parser.ParseString(s.Text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return program, nil
}

// Check parses the source and runs the static checker over it. The error
// is reserved for parse failures.
func (s *Source) Check(parseOpts []parser.Option, checkOpts ...typechecker.Option) ([]typechecker.Diagnostic, error) {
	program, err := s.Parse(parseOpts...)
	if err != nil {
		return nil, err
	}
	diags, err := typechecker.New(checkOpts...).CheckProgram(program)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return diags, nil
}

// Run parses and evaluates the source against a fresh root environment.
func (s *Source) Run(parseOpts []parser.Option, evalOpts []interpreter.Option) (runtime.Value, error) {
	program, err := s.Parse(parseOpts...)
	if err != nil {
		return nil, err
	}
	val, err := interpreter.New(evalOpts...).Evaluate(program, runtime.NewEnvironment(nil))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return val, nil
}

// Session keeps one root environment alive across evaluations so that
// bindings made by one entry are visible to the next.
type Session struct {
	interp    *interpreter.Interpreter
	env       *runtime.Environment
	parseOpts []parser.Option
}

// NewSession starts a session with an empty root environment.
func NewSession(parseOpts []parser.Option, evalOpts []interpreter.Option) *Session {
	return &Session{
		interp:    interpreter.New(evalOpts...),
		env:       runtime.NewEnvironment(nil),
		parseOpts: parseOpts,
	}
}

// Eval parses and evaluates one entry. A failed entry leaves the bindings
// made before the failing statement in place.
func (s *Session) Eval(name, text string) (runtime.Value, *Source, error) {
	src := NewSource(name, text)
	program, err := src.Parse(s.parseOpts...)
	if err != nil {
		return nil, src, err
	}
	val, err := s.interp.Evaluate(program, s.env)
	if err != nil {
		return nil, src, fmt.Errorf("%s: %w", name, err)
	}
	return val, src, nil
}

// Bindings lists the names bound at the session's top level.
func (s *Session) Bindings() []string { return s.env.Keys() }
