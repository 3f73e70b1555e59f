package parser

import (
	"fmt"

	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/lexer"
	"github.com/raymyers/peachcc/pkg/symbols"
)

// parseDeclaration parses a struct or union definition, a variable
// declaration or a function, including the terminating ';' where one is
// required. The declared node is left on the stack.
func (p *Parser) parseDeclaration(h history) {
	if p.cur.PeekNext().IsKeyword("typedef") {
		p.fatalf("typedef is not supported")
	}
	if p.isStructDefinitionAhead() {
		p.parseStructDefinition(h)
		return
	}
	dt := p.parseDatatype()
	p.parseDeclarators(dt, h)
}

// isStructDefinitionAhead looks past modifiers for "struct {", "struct Name {"
// or "struct Name;"
func (p *Parser) isStructDefinitionAhead() bool {
	i := 0
	for {
		tok := p.cur.PeekAt(i)
		if tok == nil || tok.Type != lexer.TokenKeyword || modifierFlags[tok.Str] == 0 {
			break
		}
		i++
	}
	kw := p.cur.PeekAt(i)
	if !kw.IsKeyword("struct") && !kw.IsKeyword("union") {
		return false
	}
	next := p.cur.PeekAt(i + 1)
	if next.IsSymbol('{') {
		return true
	}
	after := p.cur.PeekAt(i + 2)
	return next.IsIdentifier() && (after.IsSymbol('{') || after.IsSymbol(';'))
}

// parseDeclarators parses the declarators that follow a datatype: a
// function, or one or more comma separated variables ended by ';'
func (p *Parser) parseDeclarators(base ast.Datatype, h history) {
	dt := base
	p.parsePointers(&dt)
	name := p.expectIdentifier()

	if p.cur.PeekNext().IsOperator("(") {
		if !h.has(historyIsGlobalScope) || h.has(historyInsideStructure) {
			p.fatalf("function %s must be declared at file scope", name)
		}
		p.parseFunction(dt, name, h)
		return
	}

	p.parseVariableList(base, dt, name, h)
	p.expectSymbol(';')
}

// parseVariableList parses the first declarator named name and every comma
// separated declarator after it. A single variable is left on the stack as
// is, several are wrapped into a VariableList.
func (p *Parser) parseVariableList(base, dt ast.Datatype, name string, h history) {
	first := p.parseVariable(dt, name, h)
	if !p.cur.PeekNext().IsOperator(",") {
		return
	}
	p.pop()
	list := []ast.Handle{first}
	for p.cur.PeekNext().IsOperator(",") {
		p.next()
		next := base
		p.parsePointers(&next)
		p.parseVariable(next, p.expectIdentifier(), h)
		list = append(list, p.pop())
	}
	p.create(&ast.VariableList{List: list})
}

// parseVariable parses the array brackets and initializer following a
// variable name, lays the variable out and pushes it
func (p *Parser) parseVariable(dt ast.Datatype, name string, h history) ast.Handle {
	for p.cur.PeekNext().IsOperator("[") {
		p.next()
		inner := p.parseOptionalExpression(h.without(historyNoComma))
		p.expectSymbol(']')
		bracket := p.create(&ast.Bracket{Inner: inner})
		p.pop()
		dt.Flags |= ast.DatatypeFlagArray
		dt.Array.Brackets = append(dt.Array.Brackets, bracket)
	}
	if h.has(historyIsUpwardStack) && dt.IsArray() {
		// array parameters are pointers
		dt.Flags &^= ast.DatatypeFlagArray
		dt.Flags |= ast.DatatypeFlagPointer
		dt.PointerDepth += len(dt.Array.Brackets)
	}
	p.computeArraySize(&dt)

	if dt.Type == ast.TypeVoid && !dt.IsPointer() {
		p.fatalf("variable %s declared void", name)
	}

	value := ast.NoNode
	if p.cur.PeekNext().IsOperator("=") {
		if h.has(historyInsideStructure) || h.has(historyIsUpwardStack) {
			p.fatalf("unexpected initializer for %s", name)
		}
		p.next()
		value = p.parseExpression(h.with(historyNoComma))
		p.markInsideExpression(value)
	}

	v := p.create(&ast.Variable{Type: dt, Name: name, Value: value})
	if p.tree.IsStructOrUnionVariable(v) && !dt.IsPointer() && !dt.Node.Valid() {
		// only globals may wait for the definition, everything else needs
		// its size to lay out what follows
		if !h.has(historyIsGlobalScope) || h.has(historyInsideStructure) {
			p.fatalf("%s has incomplete type %s %s", name, dt.Type, dt.TypeStr)
		}
		p.registerStructFixup(v)
	}
	p.placeVariable(v, h)
	return v
}

// parseFunction parses the parameters and body of a function. The function
// node is created before its parameters so they bind to it.
func (p *Parser) parseFunction(ret ast.Datatype, name string, h history) {
	fn := &ast.Function{ReturnType: ret, Name: name, ArgStackAddition: ArgStackAddition}
	if ret.IsStructOrUnion() && !ret.IsPointer() {
		fn.ArgStackAddition += StructReturnAddition
	}
	handle := p.create(fn)
	prevFunction := p.function
	p.function = handle
	defer func() { p.function = prevFunction }()

	p.scopes.NewScope(0)
	p.parseParameters(fn, h.without(historyIsGlobalScope).with(historyIsUpwardStack))

	if p.cur.PeekNext().IsSymbol(';') {
		p.next()
		fn.Native = p.symbols.GetNativeFunction(name) != nil
		p.registerFunction(handle, fn, false)
		p.scopes.Finish()
		return
	}

	if !p.cur.PeekNext().IsSymbol('{') {
		p.fatalf("expected '{' or ';' after function %s, got %s", name, describe(p.cur.PeekNext()))
	}
	p.registerFunction(handle, fn, true)
	bodyHistory := h.without(historyIsGlobalScope).with(historyInsideFunctionBody)
	p.parseBody(bodyHistory)
	fn.Body = p.pop()
	p.scopes.Finish()
}

func (p *Parser) parseParameters(fn *ast.Function, h history) {
	p.expectOperator("(")
	if p.cur.PeekNext().IsKeyword("void") && p.cur.PeekAt(1).IsSymbol(')') {
		p.next()
	}
	for !p.cur.PeekNext().IsSymbol(')') {
		if p.cur.PeekNext().IsOperator("...") {
			p.next()
			fn.Variadic = true
			if !p.cur.PeekNext().IsSymbol(')') {
				p.fatalf("'...' must be the last parameter")
			}
			break
		}
		dt := p.parseDatatype()
		p.parsePointers(&dt)
		name := ""
		if p.cur.PeekNext().IsIdentifier() {
			name = p.next().Str
		}
		p.parseVariable(dt, name, h)
		fn.Args = append(fn.Args, p.pop())

		if !p.cur.PeekNext().IsOperator(",") {
			break
		}
		p.next()
	}
	p.expectSymbol(')')
}

// registerFunction adds the function to the symbol table. A definition may
// follow a prototype or a native declaration, anything else is a duplicate.
func (p *Parser) registerFunction(handle ast.Handle, fn *ast.Function, definition bool) {
	if p.symbols.Register(fn.Name, symbols.KindNode, handle, nil) != nil {
		return
	}
	sym := p.symbols.Get(fn.Name)
	switch sym.Kind {
	case symbols.KindNativeFunction:
		return
	case symbols.KindNode:
		existing, ok := p.node(sym.Node).Data.(*ast.Function)
		if !ok {
			p.fatalf("%s redeclared as a different kind of symbol", fn.Name)
		}
		if existing.Body.Valid() || existing.Native {
			if definition && existing.Body.Valid() {
				p.fatalf("function %s already defined", fn.Name)
			}
			return
		}
		if definition {
			// the definition replaces the prototype
			sym.Node = handle
		}
		return
	}
	p.fatalf("%s redeclared", fn.Name)
}

// parseStructDefinition parses a struct or union definition, a forward
// declaration, or a definition with a variable declared along with it
func (p *Parser) parseStructDefinition(h history) {
	var dt ast.Datatype
	p.parseModifiers(&dt)
	kw := p.next().Str
	union := kw == "union"

	name := ""
	anonymous := false
	if p.cur.PeekNext().IsIdentifier() {
		name = p.next().Str
	} else {
		p.anonymous++
		name = fmt.Sprintf("__anonymous_%s_%d", kw, p.anonymous)
		anonymous = true
	}

	var payload ast.Payload = &ast.Struct{Name: name}
	if union {
		payload = &ast.Union{Name: name}
	}

	if p.cur.PeekNext().IsSymbol(';') {
		p.next()
		handle := p.create(payload)
		p.node(handle).Flags |= ast.FlagIsForwardDeclaration
		return
	}

	handle := p.create(payload)
	if !anonymous && p.symbols.Register(name, symbols.KindNode, handle, nil) == nil {
		p.fatalf("%s %s already defined", kw, name)
	}

	bodyHistory := h.with(historyInsideStructure)
	if union {
		bodyHistory = bodyHistory.with(historyInsideUnion)
	}
	p.parseBody(bodyHistory)
	body := p.pop()
	switch s := payload.(type) {
	case *ast.Struct:
		s.Body = body
	case *ast.Union:
		s.Body = body
	}

	if p.cur.PeekNext().IsSymbol(';') {
		p.next()
		return
	}

	if union {
		p.fatalf("unions are not yet supported")
	}
	dt.Type = ast.TypeStruct
	dt.TypeStr = name
	dt.Node = handle
	dt.Size = p.bodyOf(body).Size
	if anonymous {
		dt.Flags |= ast.DatatypeFlagAnonymous
	}
	p.parsePointers(&dt)
	p.parseVariable(dt, p.expectIdentifier(), h)
	v := p.pop()
	p.node(handle).Flags |= ast.FlagHasVariableCombined
	if s, ok := payload.(*ast.Struct); ok {
		s.Var = v
	}
	p.expectSymbol(';')
}
