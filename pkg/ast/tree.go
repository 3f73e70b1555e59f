package ast

import "fmt"

// Tree is the node arena of one translation unit together with its ordered
// top-level nodes.
type Tree struct {
	nodes []*Node
	Root  []Handle
}

// NewTree creates an empty tree
func NewTree() *Tree {
	// slot 0 backs NoNode
	return &Tree{nodes: []*Node{nil}}
}

// Add stores a copy of n in the arena and returns its handle
func (t *Tree) Add(n Node) Handle {
	if n.Data == nil {
		panic("ast: node without payload")
	}
	node := n
	t.nodes = append(t.nodes, &node)
	return Handle(len(t.nodes) - 1)
}

// Node returns the node for h. It panics when h is not a node of the tree.
func (t *Tree) Node(h Handle) *Node {
	n, ok := t.Lookup(h)
	if !ok {
		panic(fmt.Sprintf("ast: invalid handle %d", h))
	}
	return n
}

// Lookup returns the node for h, or false for NoNode and out of range handles
func (t *Tree) Lookup(h Handle) (*Node, bool) {
	if !h.Valid() || int(h) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[h], true
}

// Kind returns the kind of the node at h
func (t *Tree) Kind(h Handle) Kind {
	return t.Node(h).Kind()
}

// Len returns the number of nodes in the arena
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Expression returns the expression payload at h, if h is an expression
func (t *Tree) Expression(h Handle) (*Expression, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return nil, false
	}
	e, ok := n.Data.(*Expression)
	return e, ok
}

// Variable returns the variable payload at h, if h is a variable
func (t *Tree) Variable(h Handle) (*Variable, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return nil, false
	}
	v, ok := n.Data.(*Variable)
	return v, ok
}

// Body returns the body payload at h, if h is a body
func (t *Tree) Body(h Handle) (*Body, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return nil, false
	}
	b, ok := n.Data.(*Body)
	return b, ok
}

// IsExpression reports whether h is an expression with operator op
func (t *Tree) IsExpression(h Handle, op string) bool {
	e, ok := t.Expression(h)
	return ok && e.Op == op
}

// IsExpressionable reports whether the node can be the operand of an
// expression.
func IsExpressionable(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case KindExpression, KindParentheses, KindUnary, KindIdentifier, KindNumber, KindString, KindCast:
		return true
	}
	return false
}

// VariableNode returns the variable a node declares: the node itself for
// variables, the combined variable for struct and union definitions.
func (t *Tree) VariableNode(h Handle) (Handle, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return NoNode, false
	}
	switch d := n.Data.(type) {
	case *Variable:
		return h, true
	case *Struct:
		return d.Var, d.Var.Valid()
	case *Union:
		return d.Var, d.Var.Valid()
	}
	return NoNode, false
}

// VariableSize returns the size of the variable at h
func (t *Tree) VariableSize(h Handle) int {
	v, ok := t.Variable(h)
	if !ok {
		panic(fmt.Sprintf("ast: node %d is not a variable", h))
	}
	return v.Type.SizeOf()
}

// VariableListSize returns the summed size of every variable in a list
func (t *Tree) VariableListSize(h Handle) int {
	list, ok := t.Node(h).Data.(*VariableList)
	if !ok {
		panic(fmt.Sprintf("ast: node %d is not a variable list", h))
	}
	size := 0
	for _, v := range list.List {
		size += t.VariableSize(v)
	}
	return size
}

// IsStructOrUnionVariable reports whether h is a variable of struct or union type
func (t *Tree) IsStructOrUnionVariable(h Handle) bool {
	v, ok := t.Variable(h)
	return ok && v.Type.IsStructOrUnion()
}

// StructName returns the name of a struct or union node
func (t *Tree) StructName(h Handle) (string, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return "", false
	}
	switch d := n.Data.(type) {
	case *Struct:
		return d.Name, true
	case *Union:
		return d.Name, true
	}
	return "", false
}

// StructBody returns the body of a struct or union node
func (t *Tree) StructBody(h Handle) (Handle, bool) {
	n, ok := t.Lookup(h)
	if !ok {
		return NoNode, false
	}
	switch d := n.Data.(type) {
	case *Struct:
		return d.Body, d.Body.Valid()
	case *Union:
		return d.Body, d.Body.Valid()
	}
	return NoNode, false
}
