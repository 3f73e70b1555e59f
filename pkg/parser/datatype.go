package parser

import (
	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/lexer"
)

var primitiveTypes = map[string]ast.Type{
	"void":   ast.TypeVoid,
	"char":   ast.TypeChar,
	"short":  ast.TypeShort,
	"int":    ast.TypeInt,
	"long":   ast.TypeLong,
	"float":  ast.TypeFloat,
	"double": ast.TypeDouble,
}

var modifierFlags = map[string]ast.DatatypeFlags{
	"static":               ast.DatatypeFlagStatic,
	"const":                ast.DatatypeFlagConst,
	"extern":               ast.DatatypeFlagExtern,
	"restrict":             ast.DatatypeFlagRestrict,
	"__ignore_typecheck__": ast.DatatypeFlagIgnoreTypecheck,
}

func isPrimitiveKeyword(s string) bool {
	_, ok := primitiveTypes[s]
	return ok
}

// isDatatypeKeyword reports whether s can start a type name
func isDatatypeKeyword(s string) bool {
	return isPrimitiveKeyword(s) || s == "struct" || s == "union" || s == "unsigned" || s == "signed" ||
		modifierFlags[s] != 0
}

// isDeclarationKeyword reports whether s can start a declaration
func isDeclarationKeyword(s string) bool {
	return isDatatypeKeyword(s) || s == "typedef"
}

func (p *Parser) parseModifiers(dt *ast.Datatype) {
	for {
		tok := p.cur.PeekNext()
		if tok == nil || tok.Type != lexer.TokenKeyword || modifierFlags[tok.Str] == 0 {
			return
		}
		p.next()
		dt.Flags |= modifierFlags[tok.Str]
	}
}

// parseDatatype parses modifiers, signedness and the base type. Pointer
// stars belong to each declarator and are left alone.
func (p *Parser) parseDatatype() ast.Datatype {
	dt := ast.Datatype{Flags: ast.DatatypeFlagSigned}
	p.parseModifiers(&dt)

	explicitSign := false
	if tok := p.cur.PeekNext(); tok.IsKeyword("unsigned") || tok.IsKeyword("signed") {
		p.next()
		explicitSign = true
		if tok.Str == "unsigned" {
			dt.Flags &^= ast.DatatypeFlagSigned
		}
		p.parseModifiers(&dt)
	}

	tok := p.cur.PeekNext()
	switch {
	case tok.IsKeyword("typedef"):
		p.fatalf("typedef is not supported")
	case tok.IsKeyword("struct") || tok.IsKeyword("union"):
		if explicitSign {
			p.fatalf("'%s' cannot be signed or unsigned", tok.Str)
		}
		p.parseStructType(&dt)
	case tok != nil && tok.Type == lexer.TokenKeyword && isPrimitiveKeyword(tok.Str):
		p.next()
		p.setPrimitive(&dt, tok.Str)
		p.parseSecondaryType(&dt)
	case explicitSign:
		// "unsigned x" declares an int
		p.setPrimitive(&dt, "int")
	default:
		p.fatalf("expected a datatype, got %s", describe(tok))
	}
	p.parseModifiers(&dt)
	return dt
}

func (p *Parser) setPrimitive(dt *ast.Datatype, name string) {
	dt.Type = primitiveTypes[name]
	dt.TypeStr = name
	dt.Size = ast.PrimitiveSize(dt.Type)
	if dt.Type == ast.TypeVoid {
		dt.Flags &^= ast.DatatypeFlagSigned
	}
}

// parseSecondaryType handles two word types such as "long int"
func (p *Parser) parseSecondaryType(dt *ast.Datatype) {
	tok := p.cur.PeekNext()
	if tok == nil || tok.Type != lexer.TokenKeyword || !isPrimitiveKeyword(tok.Str) {
		return
	}
	p.next()
	second := ast.Datatype{Flags: dt.Flags, TypeStr: tok.Str}
	p.setPrimitive(&second, tok.Str)

	switch {
	case dt.Type == ast.TypeLong && second.Type == ast.TypeLong:
		p.warnf("long long is not supported, narrowed to %d bytes", ast.SizeDword)
	case second.Type == ast.TypeInt && (dt.Type == ast.TypeShort || dt.Type == ast.TypeLong):
	case dt.Type == ast.TypeLong && second.Type == ast.TypeDouble:
	default:
		p.fatalf("invalid type '%s %s'", dt.TypeStr, second.TypeStr)
	}
	dt.Secondary = &second
	dt.Flags |= ast.DatatypeFlagHasSecondary
}

// parsePointers consumes the stars of a declarator
func (p *Parser) parsePointers(dt *ast.Datatype) {
	for p.cur.PeekNext().IsOperator("*") {
		p.next()
		dt.PointerDepth++
		dt.Flags |= ast.DatatypeFlagPointer
	}
}

// parseStructType parses "struct Name" used as a type. The struct may be
// defined later, in which case the caller registers a fixup.
func (p *Parser) parseStructType(dt *ast.Datatype) {
	kw := p.next().Str
	dt.Type = ast.TypeStruct
	if kw == "union" {
		dt.Type = ast.TypeUnion
	}
	dt.Flags &^= ast.DatatypeFlagSigned
	dt.TypeStr = p.expectIdentifier()
	p.linkStructType(dt)
}

// linkStructType points dt at the definition of its struct when it is known
func (p *Parser) linkStructType(dt *ast.Datatype) bool {
	node, ok := p.symbols.NodeFor(p.symbols.Get(dt.TypeStr))
	if !ok {
		return false
	}
	n := p.node(node)
	switch n.Kind() {
	case ast.KindStruct, ast.KindUnion:
	default:
		p.fatalf("%s is not a struct or union", dt.TypeStr)
	}
	if (n.Kind() == ast.KindUnion) != (dt.Type == ast.TypeUnion) {
		p.fatalf("%s %s was defined as a different kind of type", dt.Type, dt.TypeStr)
	}
	body, ok := p.tree.StructBody(node)
	if !ok {
		return false
	}
	dt.Node = node
	dt.Size = p.bodyOf(body).Size
	return true
}

// computeArraySize sets the element count and total size of an array type
func (p *Parser) computeArraySize(dt *ast.Datatype) {
	if !dt.IsArray() {
		return
	}
	count := 1
	for _, b := range dt.Array.Brackets {
		inner := p.node(b).Data.(*ast.Bracket).Inner
		if !inner.Valid() {
			count = 0
			continue
		}
		n, ok := p.node(inner).Data.(*ast.Number)
		if !ok {
			p.fatalf("array size must be a constant")
		}
		count *= int(n.Value)
	}
	dt.Array.Count = count
	dt.Array.Size = count * dt.ElementSize()
}

// alignable reports whether a type is padded to its own size
func alignable(dt *ast.Datatype) bool {
	return dt.IsPrimitive() || dt.IsPointer()
}
