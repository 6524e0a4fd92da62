package ast

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeNilLiteral          NodeType = "NilLiteral"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeLambdaExpression    NodeType = "LambdaExpression"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeBlock               NodeType = "Block"
	NodeLetStatement        NodeType = "LetStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeProcedureDefinition NodeType = "ProcedureDefinition"
	NodeProgram             NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Pos  Span     `json:"span"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Pos }
func (n *nodeImpl) setSpan(span Span) { n.Pos = span }
func (nodeImpl) isNode()              {}

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

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

// Operators

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "-"
	UnaryOperatorNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Functions

// LambdaExpression is an anonymous function. Expression-bodied lambdas are
// stored with a body holding a single return statement.
type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Params []*Identifier `json:"params"`
	Body   *Block        `json:"body"`
}

func NewLambdaExpression(params []*Identifier, body *Block) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

type LetStatement struct {
	nodeImpl
	statementMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewLetStatement(name *Identifier, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Name: name, Value: value}
}

// IfStatement evaluates exactly one of its branches. Else is nil, a *Block, or
// a nested *IfStatement for `else if` chains.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then *Block, otherwise Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

// Program root

type ProcedureDefinition struct {
	nodeImpl

	ID     *Identifier   `json:"id"`
	Params []*Identifier `json:"params"`
	Body   *Block        `json:"body"`
}

func NewProcedureDefinition(id *Identifier, params []*Identifier, body *Block) *ProcedureDefinition {
	return &ProcedureDefinition{nodeImpl: newNodeImpl(NodeProcedureDefinition), ID: id, Params: params, Body: body}
}

type Program struct {
	nodeImpl

	Procedures []*ProcedureDefinition `json:"procedures"`
}

func NewProgram(procedures []*ProcedureDefinition) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Procedures: procedures}
}

// Procedure returns the procedure with the given name, if defined.
func (p *Program) Procedure(name string) (*ProcedureDefinition, bool) {
	if p == nil {
		return nil, false
	}
	for _, proc := range p.Procedures {
		if proc != nil && proc.ID != nil && proc.ID.Name == name {
			return proc, true
		}
	}
	return nil, false
}
