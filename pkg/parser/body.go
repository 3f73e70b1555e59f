package parser

import (
	"github.com/raymyers/peachcc/pkg/align"
	"github.com/raymyers/peachcc/pkg/ast"
)

// parseBody parses a braced block, or a single statement where braces are
// optional, inside a new scope. The body node is left on the stack.
func (p *Parser) parseBody(h history) {
	s := p.scopes.NewScope(0)
	handle := p.create(&ast.Body{})
	b := p.bodyOf(handle)
	prevBody := p.body
	p.body = handle

	if p.cur.PeekNext().IsSymbol('{') {
		p.next()
		for !p.cur.PeekNext().IsSymbol('}') {
			if p.cur.PeekNext() == nil {
				p.fatalf("unexpected end of input, expected '}'")
			}
			p.parseStatement(h)
			b.Statements = append(b.Statements, p.pop())
		}
		p.next()
	} else {
		if h.has(historyInsideStructure) {
			p.fatalf("expected '{', got %s", describe(p.cur.PeekNext()))
		}
		p.parseStatement(h)
		b.Statements = append(b.Statements, p.pop())
	}

	p.body = prevBody
	p.computeBodySize(b, h.has(historyInsideUnion))
	if p.scopes.CurrentHandle() != s {
		p.fatalf("internal error: body closed a scope it did not open")
	}
	p.scopes.Finish()

	if h.has(historyInsideFunctionBody) && !h.has(historyInsideStructure) {
		p.functionOf(p.function).StackSize += b.Size
	}
}

// computeBodySize adds up the variables declared directly in the body. The
// total is aligned to the largest primitive variable. A union is as large as
// its largest member.
func (p *Parser) computeBodySize(b *ast.Body, union bool) {
	size := 0
	var paddings []int
	var largest, largestPrimitive *ast.Variable
	for _, stmt := range b.Statements {
		for _, h := range p.variablesOf(stmt) {
			v := p.variable(h)
			size += v.Type.SizeOf()
			paddings = append(paddings, v.Padding)
			if largest == nil || v.Type.SizeOf() > largest.Type.SizeOf() {
				largest = v
				b.LargestVar = h
			}
			if alignable(&v.Type) && (largestPrimitive == nil || v.Type.Alignment() > largestPrimitive.Type.Alignment()) {
				largestPrimitive = v
			}
		}
	}
	size += align.SumPadding(paddings...)

	if largestPrimitive != nil {
		aligned := align.Value(size, largestPrimitive.Type.Alignment())
		b.Padded = aligned != size
		size = aligned
	}
	if union && largest != nil {
		size = largest.Type.SizeOf()
	}
	b.Size = size
}
