package parser

import (
	"github.com/raymyers/peachcc/pkg/ast"
)

// create stores payload as a new node bound to the current body and
// function, pushes it and returns its handle
func (p *Parser) create(payload ast.Payload) ast.Handle {
	h := p.tree.Add(ast.Node{
		Pos:     p.cur.Pos(),
		Binding: ast.Binding{Owner: p.body, Function: p.function},
		Data:    payload,
	})
	p.push(h)
	return h
}

func (p *Parser) push(h ast.Handle) {
	p.stack = append(p.stack, h)
}

// pop removes the top of the stack. A node promoted to the root is removed
// from the root too, so re-wrapping it never lists it twice.
func (p *Parser) pop() ast.Handle {
	if len(p.stack) == 0 {
		p.fatalf("internal error: node stack is empty")
	}
	h := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if n := len(p.tree.Root); n > 0 && p.tree.Root[n-1] == h {
		p.tree.Root = p.tree.Root[:n-1]
	}
	return h
}

func (p *Parser) peek() ast.Handle {
	h := p.peekOrNull()
	if !h.Valid() {
		p.fatalf("internal error: node stack is empty")
	}
	return h
}

func (p *Parser) peekOrNull() ast.Handle {
	if len(p.stack) == 0 {
		return ast.NoNode
	}
	return p.stack[len(p.stack)-1]
}

// peekExpressionableOrNull returns the top of the stack if it can be the
// operand of an expression
func (p *Parser) peekExpressionableOrNull() ast.Handle {
	h := p.peekOrNull()
	if n, ok := p.tree.Lookup(h); ok && ast.IsExpressionable(n) {
		return h
	}
	return ast.NoNode
}

// promote appends the top of the stack to the root
func (p *Parser) promote() {
	p.tree.Root = append(p.tree.Root, p.peek())
}

// checkStack verifies that the stack holds exactly the root nodes
func (p *Parser) checkStack() {
	if len(p.stack) != len(p.tree.Root) {
		p.fatalf("internal error: %d nodes on the stack, %d root nodes", len(p.stack), len(p.tree.Root))
	}
	for i, h := range p.stack {
		if p.tree.Root[i] != h {
			p.fatalf("internal error: stack and root disagree at %d", i)
		}
	}
}

// node returns the node at h
func (p *Parser) node(h ast.Handle) *ast.Node {
	return p.tree.Node(h)
}

func (p *Parser) variable(h ast.Handle) *ast.Variable {
	v, ok := p.tree.Variable(h)
	if !ok {
		p.fatalf("internal error: node %d is not a variable", h)
	}
	return v
}

func (p *Parser) bodyOf(h ast.Handle) *ast.Body {
	b, ok := p.tree.Body(h)
	if !ok {
		p.fatalf("internal error: node %d is not a body", h)
	}
	return b
}

func (p *Parser) functionOf(h ast.Handle) *ast.Function {
	fn, ok := p.node(h).Data.(*ast.Function)
	if !ok {
		p.fatalf("internal error: node %d is not a function", h)
	}
	return fn
}

// variablesOf returns the variables a statement declares
func (p *Parser) variablesOf(h ast.Handle) []ast.Handle {
	n, ok := p.tree.Lookup(h)
	if !ok {
		return nil
	}
	switch d := n.Data.(type) {
	case *ast.Variable:
		return []ast.Handle{h}
	case *ast.VariableList:
		return d.List
	case *ast.Struct, *ast.Union:
		if v, ok := p.tree.VariableNode(h); ok {
			return []ast.Handle{v}
		}
	case *ast.For:
		return p.variablesOf(d.Init)
	}
	return nil
}
