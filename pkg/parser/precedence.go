package parser

// Associativity of an operator group
type Associativity int

const (
	LeftToRight Associativity = iota
	RightToLeft
)

// PrecedenceGroup is a set of operators with equal precedence
type PrecedenceGroup struct {
	Operators     []string
	Associativity Associativity
}

// precedence lists the operator groups from the tightest binding to the
// loosest
var precedence = []PrecedenceGroup{
	{[]string{"++", "--", "()", "[]", "(", "[", ".", "->"}, LeftToRight},
	{[]string{"*", "/", "%"}, LeftToRight},
	{[]string{"+", "-"}, LeftToRight},
	{[]string{"<<", ">>"}, LeftToRight},
	{[]string{"<", "<=", ">", ">="}, LeftToRight},
	{[]string{"==", "!="}, LeftToRight},
	{[]string{"&"}, LeftToRight},
	{[]string{"^"}, LeftToRight},
	{[]string{"|"}, LeftToRight},
	{[]string{"&&"}, LeftToRight},
	{[]string{"||"}, LeftToRight},
	{[]string{"?", ":"}, RightToLeft},
	{[]string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|="}, RightToLeft},
	{[]string{","}, LeftToRight},
}

// Precedence returns the index of the group op belongs to, lower binding
// tighter, and the group itself
func Precedence(op string) (int, *PrecedenceGroup, bool) {
	for i := range precedence {
		for _, o := range precedence[i].Operators {
			if o == op {
				return i, &precedence[i], true
			}
		}
	}
	return -1, nil, false
}

// isPostfixOperation reports whether op belongs to the tightest group
func isPostfixOperation(op string) bool {
	i, _, ok := Precedence(op)
	return ok && i == 0
}

var unaryOperators = map[string]bool{
	"-": true, "+": true, "!": true, "~": true,
	"*": true, "&": true, "++": true, "--": true,
}

func isUnaryOperator(op string) bool {
	return unaryOperators[op]
}

// isBinaryOperator reports whether op can join two operands in a generic
// binary expression
func isBinaryOperator(op string) bool {
	i, _, ok := Precedence(op)
	return ok && i != 0 && op != "?" && op != ":"
}
