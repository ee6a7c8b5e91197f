package driver

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/typechecker"
)

func TestLoadSourceAndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.gr")
	writeFile(t, path, "# 계산\nx = 6\nx * 7\n")

	src, err := LoadSource(path)
	require.NoError(t, err)
	val, err := src.Run(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "42", val.Display())
}

func TestSourceIsNormalized(t *testing.T) {
	// "값" spelled with conjoining jamo.
	src := NewSource("jamo", "\u1100\u1161\u11b9 = 1")
	require.Equal(t, "값 = 1", src.Text)
}

func TestSourceErrorsKeepTheirType(t *testing.T) {
	_, err := NewSource("bad", "*3").Run(nil, nil)
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, parser.UnexpectedToken, syntaxErr.Kind)
	require.Contains(t, err.Error(), "bad: ")

	_, err = NewSource("unbound", "y").Run(nil, nil)
	require.True(t, errors.Is(err, interpreter.ErrUnboundIdentifier))
}

func TestSourceRunAppliesOptions(t *testing.T) {
	src := NewSource("lenient", "f = 함수(a) { 결과 a } f()")
	_, err := src.Run(nil, nil)
	require.ErrorIs(t, err, interpreter.ErrArity)

	val, err := src.Run(nil, []interpreter.Option{interpreter.WithStrictArity(false)})
	require.NoError(t, err)
	require.Equal(t, "(정의되지 않음)", val.Display())

	_, err = NewSource("deep", "((((1))))").Run([]parser.Option{parser.WithMaxDepth(2)}, nil)
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, parser.NestingTooDeep, syntaxErr.Kind)
}

func TestSessionKeepsBindings(t *testing.T) {
	session := NewSession(nil, nil)

	val, _, err := session.Eval("1", "x = 40")
	require.NoError(t, err)
	require.Equal(t, "40", val.Display())

	_, _, err = session.Eval("2", "add = 함수(a, b) { 결과 a + b }")
	require.NoError(t, err)

	val, _, err = session.Eval("3", "add(x, 2)")
	require.NoError(t, err)
	require.Equal(t, "42", val.Display())

	_, src, err := session.Eval("4", "y = 1 z")
	require.ErrorIs(t, err, interpreter.ErrUnboundIdentifier)
	require.Equal(t, "4", src.Name)
	require.Equal(t, []string{"add", "x", "y"}, session.Bindings())
}

func TestSourceDecodesSavedTree(t *testing.T) {
	program, err := NewSource("one.gr", "x = 40 x + 2").Parse()
	require.NoError(t, err)
	data, err := json.Marshal(program)
	require.NoError(t, err)

	val, err := NewSource("one"+TreeExtension, string(data)).Run(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "42", val.Display())

	_, err = NewSource("bad"+TreeExtension, `{"type": "Block"}`).Parse()
	require.ErrorContains(t, err, "bad.json: decode tree")
}

func TestSourceCheck(t *testing.T) {
	src := NewSource("check.gr", "f = 함수(a) { 결과 a } f()")
	diags, err := src.Check(nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, "arity-mismatch", diags[0].Code)

	diags, err = src.Check(nil, typechecker.WithStrictArity(false))
	require.NoError(t, err)
	require.Empty(t, diags)

	_, err = NewSource("broken.gr", "(").Check(nil)
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}
