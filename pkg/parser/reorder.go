package parser

import "github.com/raymyers/peachcc/pkg/ast"

// Binary expressions are built greedily: the right operand swallows the rest
// of the expression, so "a - b * c - d" first comes out as a - (b * (c - d)).
// reorder rotates such trees until they follow the precedence table:
//
//	L op1 (RL op2 RR)  =>  (L op1 RL) op2 RR
//
// The rotation applies when op1 binds tighter than op2, or both share a left
// to right group.

// isOperand reports whether h acts as a single operand during reordering.
// Calls, index and member access bind to their left side immediately.
func (p *Parser) isOperand(h ast.Handle) bool {
	exp, ok := p.tree.Expression(h)
	return !ok || isPostfixOperation(exp.Op)
}

func shouldRotate(outer, inner string) bool {
	oi, _, ok := Precedence(outer)
	if !ok {
		return false
	}
	ii, group, ok := Precedence(inner)
	if !ok {
		return false
	}
	if oi < ii {
		return true
	}
	return oi == ii && group.Associativity == LeftToRight
}

// reorder restores precedence and associativity of the expression at h in
// place. The node at h stays the root of the expression.
func (p *Parser) reorder(h ast.Handle) {
	exp, ok := p.tree.Expression(h)
	if !ok || !p.isOperand(exp.Left) {
		return
	}
	right, ok := p.tree.Expression(exp.Right)
	if !ok || !shouldRotate(exp.Op, right.Op) {
		return
	}

	// the right child's node becomes the new left subtree
	newLeft := exp.Right
	left, op1 := exp.Left, exp.Op
	rl, op2, rr := right.Left, right.Op, right.Right

	right.Left, right.Op, right.Right = left, op1, rl
	exp.Left, exp.Op, exp.Right = newLeft, op2, rr

	p.reorder(newLeft)
	p.reorder(rr)
}
