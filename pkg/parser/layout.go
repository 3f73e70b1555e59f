package parser

import (
	"github.com/raymyers/peachcc/pkg/align"
	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/scope"
)

// placeVariable computes the offset and padding of a freshly declared
// variable and records it in the current scope
func (p *Parser) placeVariable(h ast.Handle, hist history) {
	v := p.variable(h)
	var flags scope.EntityFlags
	switch {
	case hist.has(historyInsideStructure):
		flags = scope.EntityStructureMember
		v.Offset, v.Padding = p.memberOffset(v)
	case hist.has(historyIsGlobalScope):
		v.Offset, v.Padding = 0, 0
	case hist.has(historyIsUpwardStack):
		flags = scope.EntityUpwardStack
		v.Offset, v.Padding = p.upwardStackOffset(v)
	default:
		flags = scope.EntityOnStack
		v.Offset, v.Padding = p.stackOffset(v)
	}
	p.scopes.Push(&scope.Entity{Node: h, StackOffset: v.Offset, Flags: flags}, v.Type.SizeOf())
}

// memberOffset places a struct member after the previous member of the same
// body. Only primitive members are padded.
func (p *Parser) memberOffset(v *ast.Variable) (offset, padding int) {
	last := p.scopes.LastEntityStopAt(p.scopes.Current().Parent)
	if last == nil {
		return 0, 0
	}
	offset = last.StackOffset + p.variable(last.Node).Type.SizeOf()
	if alignable(&v.Type) {
		padding = align.Padding(offset, v.Type.Alignment())
	}
	return offset + padding, padding
}

// stackOffset places a local variable below the previous local of the
// enclosing function. Globals and parameters are never consulted.
func (p *Parser) stackOffset(v *ast.Variable) (offset, padding int) {
	offset = -v.Type.SizeOf()
	last := p.scopes.LastEntityFunc(p.scopes.Root(), func(e *scope.Entity) bool {
		return e.Flags&scope.EntityOnStack != 0
	})
	if last != nil {
		offset += last.StackOffset
	}
	if alignable(&v.Type) {
		aligned := align.ValueTreatPositive(offset, v.Type.Alignment())
		padding = offset - aligned
		offset = aligned
	}
	return offset, padding
}

// upwardStackOffset places a parameter above the frame base, after the
// previous parameter
func (p *Parser) upwardStackOffset(v *ast.Variable) (offset, padding int) {
	last := p.scopes.LastEntityFunc(p.scopes.Root(), func(e *scope.Entity) bool {
		return e.Flags&scope.EntityUpwardStack != 0
	})
	if last == nil {
		return p.functionOf(p.function).ArgStackAddition, 0
	}
	offset = last.StackOffset + p.variable(last.Node).Type.SizeOf()
	if alignable(&v.Type) {
		padding = align.Padding(offset, v.Type.Alignment())
	}
	return offset + padding, padding
}
