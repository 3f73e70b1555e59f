// Package ast defines the syntax tree produced by the parser. Nodes live in an
// arena owned by a Tree and refer to each other through Handles.
package ast

import "github.com/raymyers/peachcc/pkg/lexer"

// Handle is an index into a Tree's node arena. The zero Handle refers to no
// node.
type Handle int32

// NoNode is the absent handle
const NoNode Handle = 0

// Valid reports whether h refers to a node
func (h Handle) Valid() bool {
	return h > 0
}

// Kind is the discriminant of a node's payload
type Kind int

const (
	KindExpression Kind = iota
	KindParentheses
	KindNumber
	KindIdentifier
	KindString
	KindVariable
	KindVariableList
	KindFunction
	KindBody
	KindReturn
	KindIf
	KindElse
	KindWhile
	KindDoWhile
	KindFor
	KindBreak
	KindContinue
	KindSwitch
	KindCase
	KindDefault
	KindGoto
	KindUnary
	KindTernary
	KindLabel
	KindStruct
	KindUnion
	KindBracket
	KindCast
	KindBlank
)

func (k Kind) String() string {
	names := []string{"Expression", "Parentheses", "Number", "Identifier", "String", "Variable", "VariableList",
		"Function", "Body", "Return", "If", "Else", "While", "DoWhile", "For", "Break", "Continue", "Switch",
		"Case", "Default", "Goto", "Unary", "Ternary", "Label", "Struct", "Union", "Bracket", "Cast", "Blank"}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// Flags are properties shared by every node kind
type Flags int

const (
	FlagInsideExpression Flags = 1 << iota
	FlagIsForwardDeclaration
	FlagHasVariableCombined
)

// Binding links a node to the body and function it was created in. Both are
// non-owning.
type Binding struct {
	Owner    Handle
	Function Handle
}

// Node is one element of the tree
type Node struct {
	Flags   Flags
	Pos     lexer.Pos
	Binding Binding
	Data    Payload
}

// Kind returns the kind of the node's payload
func (n *Node) Kind() Kind {
	return n.Data.Kind()
}

// Payload is implemented by the variant data of each node kind
type Payload interface {
	Kind() Kind
}

// Expression is a binary expression, including calls ("()"), array
// indexing ("[]"), member access and the comma operator.
type Expression struct {
	Left  Handle
	Right Handle
	Op    string
}

// Parentheses wraps an expression written in parentheses
type Parentheses struct {
	Exp Handle // NoNode for an empty argument list
}

// Number is an integer literal
type Number struct {
	Value int64
}

// Identifier is a name used inside an expression
type Identifier struct {
	Name string
}

// String is a string literal
type String struct {
	Value string
}

// Variable is a declared variable, parameter or struct member
type Variable struct {
	Type    Datatype
	Name    string
	Value   Handle // initializer
	Offset  int    // stack, argument or member offset
	Padding int
}

// VariableList is a declaration introducing several variables
type VariableList struct {
	List []Handle
}

// Function is a function definition or prototype
type Function struct {
	ReturnType Datatype
	Name       string
	Args       []Handle
	Variadic   bool
	Native     bool
	Body       Handle // NoNode for a prototype
	// StackSize is the total size of every local variable in the function
	StackSize int
	// ArgStackAddition is the distance from the frame base to the first
	// argument
	ArgStackAddition int
}

// Body is a block of statements, or the member list of a struct or union
type Body struct {
	Statements []Handle
	Size       int
	Padded     bool
	LargestVar Handle
}

// Return is a return statement
type Return struct {
	Exp Handle
}

// If is an if statement. Next is the else or else-if that follows it.
type If struct {
	Cond Handle
	Body Handle
	Next Handle
}

// Else is the else branch of an if statement
type Else struct {
	Body Handle
}

// While is a while loop
type While struct {
	Cond Handle
	Body Handle
}

// DoWhile is a do ... while loop
type DoWhile struct {
	Body Handle
	Cond Handle
}

// For is a for loop; every header part may be absent
type For struct {
	Init Handle
	Cond Handle
	Loop Handle
	Body Handle
}

// Break is a break statement
type Break struct{}

// Continue is a continue statement
type Continue struct{}

// Switch is a switch statement. Cases lists the value of every case label
// registered while parsing its body.
type Switch struct {
	Exp        Handle
	Body       Handle
	Cases      []int64
	HasDefault bool
}

// Case is a case label
type Case struct {
	Exp Handle
}

// Default is the default label of a switch
type Default struct{}

// Goto is a goto statement
type Goto struct {
	Label Handle // identifier
}

// Unary is a prefix or postfix unary operation. Depth counts consecutive
// indirections for "*".
type Unary struct {
	Op      string
	Operand Handle
	Postfix bool
	Depth   int
}

// Ternary holds the two branches of a ?: expression. The condition is the
// left side of the enclosing "?" expression.
type Ternary struct {
	True  Handle
	False Handle
}

// Label is a goto target
type Label struct {
	Name Handle // identifier
}

// Struct is a struct definition or forward declaration
type Struct struct {
	Name string
	Body Handle // NoNode for a forward declaration
	Var  Handle // variable declared together with the definition
}

// Union is a union definition or forward declaration
type Union struct {
	Name string
	Body Handle
	Var  Handle
}

// Bracket is one [] of an array declaration or index expression
type Bracket struct {
	Inner Handle
}

// Cast is a type cast
type Cast struct {
	Type    Datatype
	Operand Handle
}

// Blank is an empty statement or operand
type Blank struct{}

func (*Expression) Kind() Kind   { return KindExpression }
func (*Parentheses) Kind() Kind  { return KindParentheses }
func (*Number) Kind() Kind       { return KindNumber }
func (*Identifier) Kind() Kind   { return KindIdentifier }
func (*String) Kind() Kind       { return KindString }
func (*Variable) Kind() Kind     { return KindVariable }
func (*VariableList) Kind() Kind { return KindVariableList }
func (*Function) Kind() Kind     { return KindFunction }
func (*Body) Kind() Kind         { return KindBody }
func (*Return) Kind() Kind       { return KindReturn }
func (*If) Kind() Kind           { return KindIf }
func (*Else) Kind() Kind         { return KindElse }
func (*While) Kind() Kind        { return KindWhile }
func (*DoWhile) Kind() Kind      { return KindDoWhile }
func (*For) Kind() Kind          { return KindFor }
func (*Break) Kind() Kind        { return KindBreak }
func (*Continue) Kind() Kind     { return KindContinue }
func (*Switch) Kind() Kind       { return KindSwitch }
func (*Case) Kind() Kind         { return KindCase }
func (*Default) Kind() Kind      { return KindDefault }
func (*Goto) Kind() Kind         { return KindGoto }
func (*Unary) Kind() Kind        { return KindUnary }
func (*Ternary) Kind() Kind      { return KindTernary }
func (*Label) Kind() Kind        { return KindLabel }
func (*Struct) Kind() Kind       { return KindStruct }
func (*Union) Kind() Kind        { return KindUnion }
func (*Bracket) Kind() Kind      { return KindBracket }
func (*Cast) Kind() Kind         { return KindCast }
func (*Blank) Kind() Kind        { return KindBlank }
