package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON rebuilds a program from the JSON encoding of its tree, as
// produced by encoding/json on a *Program. Ranges are restored.
func DecodeJSON(data []byte) (*Program, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	node, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	program, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("decode tree: root is %s, not Program", node.NodeType())
	}
	return program, nil
}

func decodeNode(node map[string]any) (Node, error) {
	out, err := decodeBare(node)
	if err != nil {
		return nil, err
	}
	if rngRaw, ok := node["range"].(map[string]any); ok {
		SetRange(out, decodeRange(rngRaw))
	}
	return out, nil
}

func decodeBare(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeProgram:
		stmts, err := decodeStatements(node["statements"])
		if err != nil {
			return nil, err
		}
		return NewProgram(stmts), nil
	case NodeBlock:
		stmts, err := decodeStatements(node["statements"])
		if err != nil {
			return nil, err
		}
		return NewBlock(stmts), nil
	case NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	case NodeReturnStatement:
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		return NewReturnStatement(value), nil
	case NodeBranchStatement:
		pred, err := decodeExpression(node["predicate"])
		if err != nil {
			return nil, err
		}
		cons, err := decodeBlock(node["consequence"])
		if err != nil {
			return nil, err
		}
		var alt *Block
		if node["alternative"] != nil {
			if alt, err = decodeBlock(node["alternative"]); err != nil {
				return nil, err
			}
		}
		return NewBranchStatement(pred, cons, alt), nil
	case NodeNumberLiteral:
		val, ok := node["value"].(float64)
		if !ok {
			return nil, fmt.Errorf("number literal without numeric value")
		}
		return NewNumberLiteral(val), nil
	case NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("boolean literal without boolean value")
		}
		return NewBooleanLiteral(val), nil
	case NodeStringLiteral:
		val, _ := node["value"].(string)
		return NewStringLiteral(val), nil
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("identifier without name")
		}
		return NewIdentifier(name), nil
	case NodePrefixExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, err
		}
		return NewPrefixExpression(Operator(op), operand), nil
	case NodeInfixExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, err
		}
		return NewInfixExpression(Operator(op), left, right), nil
	case NodeAssignment:
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpression(left, right), nil
	case NodeFunctionLiteral:
		paramsRaw, _ := node["parameters"].([]any)
		params := make([]*Identifier, 0, len(paramsRaw))
		for _, raw := range paramsRaw {
			expr, err := decodeExpression(raw)
			if err != nil {
				return nil, err
			}
			id, ok := expr.(*Identifier)
			if !ok {
				return nil, fmt.Errorf("function parameter is %s, not Identifier", expr.NodeType())
			}
			params = append(params, id)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		return NewFunctionLiteral(params, body), nil
	case NodeCallExpression:
		callee, err := decodeExpression(node["callee"])
		if err != nil {
			return nil, err
		}
		argsRaw, _ := node["arguments"].([]any)
		args := make([]Expression, 0, len(argsRaw))
		for _, raw := range argsRaw {
			arg, err := decodeExpression(raw)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return NewCallExpression(callee, args), nil
	default:
		return nil, fmt.Errorf("unsupported node type %q", typ)
	}
}

func decodeChild(raw any) (Node, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected node object, got %T", raw)
	}
	return decodeNode(child)
}

func decodeExpression(raw any) (Expression, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not an expression", node.NodeType())
	}
	return expr, nil
}

func decodeBlock(raw any) (*Block, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*Block)
	if !ok {
		return nil, fmt.Errorf("%s is not a block", node.NodeType())
	}
	return block, nil
}

func decodeStatements(raw any) ([]Statement, error) {
	items, _ := raw.([]any)
	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		node, err := decodeChild(item)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Statement)
		if !ok {
			return nil, fmt.Errorf("%s is not a statement", node.NodeType())
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeRange(raw map[string]any) Range {
	return Range{Begin: decodePosition(raw["begin"]), End: decodePosition(raw["end"])}
}

func decodePosition(raw any) Position {
	m, _ := raw.(map[string]any)
	row, _ := m["row"].(float64)
	col, _ := m["col"].(float64)
	return Position{Row: int(row), Col: int(col)}
}
