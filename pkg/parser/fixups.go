package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/raymyers/peachcc/pkg/ast"
)

// unresolvedStructType completes a variable whose struct type was not
// defined yet when the variable was declared
type unresolvedStructType struct {
	p        *Parser
	variable ast.Handle
	name     string
}

// Fix links the variable to its struct once the struct has a body
func (u *unresolvedStructType) Fix() bool {
	v := u.p.variable(u.variable)
	if !u.p.linkStructType(&v.Type) {
		return false
	}
	u.p.computeArraySize(&v.Type)
	u.p.log.WithFields(logrus.Fields{
		"variable": v.Name,
		"type":     u.name,
		"size":     v.Type.SizeOf(),
	}).Debug("resolved struct type")
	return true
}

func (u *unresolvedStructType) End() {
	u.p = nil
}

func (p *Parser) registerStructFixup(variable ast.Handle) {
	v := p.variable(variable)
	p.fixups.Register(&unresolvedStructType{p: p, variable: variable, name: v.Type.TypeStr})
	p.log.WithFields(logrus.Fields{
		"variable": v.Name,
		"type":     v.Type.TypeStr,
	}).Debug("struct type not defined yet, deferring")
}

// resolveFixups drains every pending fixup. A struct that is still undefined
// afterwards fails the parse.
func (p *Parser) resolveFixups() {
	if p.fixups.ResolveAll() {
		return
	}
	for _, f := range p.fixups.Unresolved() {
		if u, ok := f.Resolver().(*unresolvedStructType); ok {
			p.fatalf("undefined %s %s", p.variable(u.variable).Type.Type, u.name)
		}
	}
	p.fatalf("%d unresolved references", p.fixups.UnresolvedCount())
}
