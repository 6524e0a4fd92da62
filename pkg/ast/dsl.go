package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func IDs(names ...string) []*Identifier {
	out := make([]*Identifier, 0, len(names))
	for _, name := range names {
		out = append(out, ID(name))
	}
	return out
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

// Expression helpers.

func Un(op UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Call(callee string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(callee), args)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

// Lam builds an expression-bodied lambda: `(params) -> body`.
func Lam(params []string, body Expression) *LambdaExpression {
	return NewLambdaExpression(IDs(params...), Blk(Ret(body)))
}

// LamBlock builds a lambda with a statement body.
func LamBlock(params []string, body ...Statement) *LambdaExpression {
	return NewLambdaExpression(IDs(params...), Blk(body...))
}

// Statement helpers.

func Blk(stmts ...Statement) *Block {
	return NewBlock(stmts)
}

func Let(name string, value Expression) *LetStatement {
	return NewLetStatement(ID(name), value)
}

func If(cond Expression, then *Block, otherwise Statement) *IfStatement {
	return NewIfStatement(cond, then, otherwise)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

// Definition helpers.

func Proc(name string, params []string, body ...Statement) *ProcedureDefinition {
	return NewProcedureDefinition(ID(name), IDs(params...), Blk(body...))
}

func Prog(procs ...*ProcedureDefinition) *Program {
	return NewProgram(procs)
}
