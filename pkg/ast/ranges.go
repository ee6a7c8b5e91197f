package ast

// SetRange records the source range of node. Nil nodes are ignored.
func SetRange(node Node, rng Range) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setRange(Range) }); ok {
		setter.setRange(rng)
	}
}

// WithRange sets the range of node and returns it, for use in builders.
func WithRange[T Node](node T, rng Range) T {
	SetRange(node, rng)
	return node
}

// Span returns the range from the beginning of first to the end of last.
func Span(first, last Range) Range {
	return Range{Begin: first.Begin, End: last.End}
}

// Pos builds a position.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Rng builds a range from begin and end coordinates.
func Rng(beginRow, beginCol, endRow, endCol int) Range {
	return Range{Begin: Pos(beginRow, beginCol), End: Pos(endRow, endCol)}
}

// Contains reports whether pos lies within r, bounds included.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Begin) && !r.End.Before(pos)
}
