package ast

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSetRangeRecordsRange(t *testing.T) {
	lit := Num(12345)
	SetRange(lit, Rng(0, 0, 0, 4))
	if got, want := lit.Range(), Rng(0, 0, 0, 4); got != want {
		t.Fatalf("range = %v, want %v", got, want)
	}
	SetRange(nil, Rng(1, 1, 1, 1))
}

func TestWithRangeReturnsSameNode(t *testing.T) {
	id := ID("x")
	if got := WithRange(id, Rng(2, 3, 2, 3)); got != id {
		t.Fatalf("WithRange returned a different node")
	}
	if id.Range().Begin != Pos(2, 3) {
		t.Fatalf("unexpected begin %v", id.Range().Begin)
	}
}

func TestSpanJoinsRanges(t *testing.T) {
	got := Span(Rng(0, 0, 0, 1), Rng(1, 4, 1, 8))
	if want := Rng(0, 0, 1, 8); got != want {
		t.Fatalf("Span = %v, want %v", got, want)
	}
}

func TestRangeContains(t *testing.T) {
	r := Rng(0, 2, 1, 3)
	cases := map[Position]bool{
		Pos(0, 1): false,
		Pos(0, 2): true,
		Pos(0, 9): true,
		Pos(1, 3): true,
		Pos(1, 4): false,
		Pos(2, 0): false,
	}
	for pos, want := range cases {
		if got := r.Contains(pos); got != want {
			t.Fatalf("Contains(%v) = %v, want %v", pos, got, want)
		}
	}
}

func TestSexpRendersNestedTree(t *testing.T) {
	prog := Prog(
		Expr(Assign(ID("f"), Fn([]string{"a", "b"},
			IfElse(Infix(OpLess, ID("a"), ID("b")),
				Blk(Ret(ID("a"))),
				Blk(Ret(Prefix(OpMinus, ID("b"))))),
		))),
		Expr(Call(Call(ID("f"), Num(1)), Str("x"), Bool(false))),
	)
	want := strings.Join([]string{
		"(= f (fn [a b] {(if (< a b) {(return a)} {(return (- b))})}))",
		"(call (call f 1) 'x' 거짓)",
	}, "\n")
	if got := Sexp(prog); got != want {
		t.Fatalf("Sexp mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestNodesMarshalTypeAndRange(t *testing.T) {
	lit := WithRange(Num(0.75), Rng(0, 0, 0, 3))
	data, err := json.Marshal(lit)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
		Range struct {
			End Position `json:"end"`
		} `json:"range"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != string(NodeNumberLiteral) || decoded.Value != 0.75 || decoded.Range.End != Pos(0, 3) {
		t.Fatalf("unexpected encoding %s", data)
	}
}

func TestOperatorIsComparison(t *testing.T) {
	for _, op := range []Operator{OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual} {
		if !op.IsComparison() {
			t.Fatalf("%s should be a comparison", op)
		}
	}
	for _, op := range []Operator{OpPlus, OpMinus, OpMultiply, OpDivide, OpNot} {
		if op.IsComparison() {
			t.Fatalf("%s should not be a comparison", op)
		}
	}
}
