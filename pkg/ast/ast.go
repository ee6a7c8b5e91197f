package ast

import "fmt"

type NodeType string

const (
	NodeProgram             NodeType = "Program"
	NodeBlock               NodeType = "Block"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeBranchStatement     NodeType = "BranchStatement"
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeIdentifier          NodeType = "Identifier"
	NodePrefixExpression    NodeType = "PrefixExpression"
	NodeInfixExpression     NodeType = "InfixExpression"
	NodeAssignment          NodeType = "AssignmentExpression"
	NodeFunctionLiteral     NodeType = "FunctionLiteral"
	NodeCallExpression      NodeType = "CallExpression"
)

type Node interface {
	NodeType() NodeType
	Range() Range
	isNode()
}

// Position is a zero-indexed (row, column) pair. Columns count code points.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// Range delimits source text. End is the position of the last character,
// not one past it.
type Range struct {
	Begin Position `json:"begin"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Begin, r.End)
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Range    `json:"range"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType  { return n.Type }
func (n nodeImpl) Range() Range        { return n.Loc }
func (nodeImpl) isNode()               {}
func (n *nodeImpl) setRange(rng Range) { n.Loc = rng }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}
