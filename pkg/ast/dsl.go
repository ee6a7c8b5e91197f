package ast

// Literal and identifier helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

// Expression helpers.

func Prefix(op Operator, operand Expression) *PrefixExpression {
	return NewPrefixExpression(op, operand)
}

func Infix(op Operator, left, right Expression) *InfixExpression {
	return NewInfixExpression(op, left, right)
}

func Assign(left, right Expression) *AssignmentExpression {
	return NewAssignmentExpression(left, right)
}

func Fn(params []string, body ...Statement) *FunctionLiteral {
	ids := make([]*Identifier, len(params))
	for i, name := range params {
		ids[i] = ID(name)
	}
	return NewFunctionLiteral(ids, Blk(body...))
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

// Statement helpers.

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func If(predicate Expression, consequence *Block) *BranchStatement {
	return NewBranchStatement(predicate, consequence, nil)
}

func IfElse(predicate Expression, consequence, alternative *Block) *BranchStatement {
	return NewBranchStatement(predicate, consequence, alternative)
}

func Prog(statements ...Statement) *Program {
	return NewProgram(statements)
}
