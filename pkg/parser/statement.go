package parser

import (
	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/lexer"
)

// parseStatement parses one statement and leaves it on the stack
func (p *Parser) parseStatement(h history) {
	tok := p.cur.PeekNext()
	if tok == nil {
		p.fatalf("unexpected end of input, expected a statement")
	}
	if h.has(historyInsideStructure) {
		if tok.Type != lexer.TokenKeyword || !isDeclarationKeyword(tok.Str) {
			p.fatalf("expected a member declaration, got %s", describe(tok))
		}
		p.parseDeclaration(h)
		return
	}

	switch {
	case tok.Type == lexer.TokenKeyword:
		p.parseKeywordStatement(tok, h)
	case tok.IsSymbol('{'):
		p.parseBody(h)
	case tok.IsSymbol(';'):
		p.next()
		p.create(&ast.Blank{})
	case tok.IsIdentifier() && p.cur.PeekAt(1).IsSymbol(':'):
		p.parseLabel()
	default:
		if !p.parseExpressionable(h) {
			p.fatalf("expected a statement, got %s", describe(tok))
		}
		p.expectSymbol(';')
	}
}

func (p *Parser) parseKeywordStatement(tok *lexer.Token, h history) {
	switch tok.Str {
	case "return":
		p.parseReturn(h)
	case "if":
		p.parseIf(h)
	case "else":
		p.fatalf("else without a previous if")
	case "while":
		p.parseWhile(h)
	case "do":
		p.parseDoWhile(h)
	case "for":
		p.parseFor(h)
	case "break":
		p.next()
		p.expectSymbol(';')
		p.create(&ast.Break{})
	case "continue":
		p.next()
		p.expectSymbol(';')
		p.create(&ast.Continue{})
	case "switch":
		p.parseSwitch(h)
	case "case":
		p.parseCase(h)
	case "default":
		p.parseDefault()
	case "goto":
		p.parseGoto()
	default:
		if !isDeclarationKeyword(tok.Str) {
			p.fatalf("unexpected keyword '%s'", tok.Str)
		}
		p.parseDeclaration(h)
	}
}

func (p *Parser) parseReturn(h history) {
	p.expectKeyword("return")
	exp := p.parseOptionalExpression(h)
	p.expectSymbol(';')
	p.create(&ast.Return{Exp: exp})
}

// parseCondition parses a parenthesized condition
func (p *Parser) parseCondition(h history) ast.Handle {
	p.expectOperator("(")
	cond := p.parseExpression(h.without(historyNoComma))
	p.expectSymbol(')')
	return cond
}

func (p *Parser) parseIf(h history) {
	p.expectKeyword("if")
	cond := p.parseCondition(h)
	p.parseBody(h)
	body := p.pop()

	next := ast.NoNode
	if p.cur.PeekNext().IsKeyword("else") {
		p.next()
		if p.cur.PeekNext().IsKeyword("if") {
			p.parseIf(h)
		} else {
			p.parseBody(h)
			elseBody := p.pop()
			p.create(&ast.Else{Body: elseBody})
		}
		next = p.pop()
	}
	p.create(&ast.If{Cond: cond, Body: body, Next: next})
}

func (p *Parser) parseWhile(h history) {
	p.expectKeyword("while")
	cond := p.parseCondition(h)
	p.parseBody(h)
	body := p.pop()
	p.create(&ast.While{Cond: cond, Body: body})
}

func (p *Parser) parseDoWhile(h history) {
	p.expectKeyword("do")
	p.parseBody(h)
	body := p.pop()
	p.expectKeyword("while")
	cond := p.parseCondition(h)
	p.expectSymbol(';')
	p.create(&ast.DoWhile{Body: body, Cond: cond})
}

func (p *Parser) parseFor(h history) {
	p.expectKeyword("for")
	p.expectOperator("(")

	var initial ast.Handle
	if tok := p.cur.PeekNext(); tok != nil && tok.Type == lexer.TokenKeyword && isDatatypeKeyword(tok.Str) {
		base := p.parseDatatype()
		dt := base
		p.parsePointers(&dt)
		p.parseVariableList(base, dt, p.expectIdentifier(), h)
		initial = p.pop()
	} else {
		initial = p.parseOptionalExpression(h)
	}
	p.expectSymbol(';')
	cond := p.parseOptionalExpression(h)
	p.expectSymbol(';')
	loop := p.parseOptionalExpression(h)
	p.expectSymbol(')')

	p.parseBody(h)
	body := p.pop()
	p.create(&ast.For{Init: initial, Cond: cond, Loop: loop, Body: body})
}

func (p *Parser) parseSwitch(h history) {
	p.expectKeyword("switch")
	exp := p.parseCondition(h)
	sw := &ast.Switch{Exp: exp}
	handle := p.create(sw)
	p.switches = append(p.switches, handle)
	p.parseBody(h)
	sw.Body = p.pop()
	p.switches = p.switches[:len(p.switches)-1]
}

func (p *Parser) currentSwitch(label string) *ast.Switch {
	if len(p.switches) == 0 {
		p.fatalf("%s outside of a switch", label)
	}
	return p.node(p.switches[len(p.switches)-1]).Data.(*ast.Switch)
}

// parseCase registers the case value with the enclosing switch. Only
// numeric constants are accepted.
func (p *Parser) parseCase(h history) {
	p.expectKeyword("case")
	sw := p.currentSwitch("case")
	exp := p.parseExpression(h)
	p.expectSymbol(':')

	value, ok := p.constantValue(exp)
	if !ok {
		p.fatalf("case value must be a numeric constant")
	}
	for _, v := range sw.Cases {
		if v == value {
			p.fatalf("duplicate case value %d", value)
		}
	}
	sw.Cases = append(sw.Cases, value)
	p.create(&ast.Case{Exp: exp})
}

func (p *Parser) parseDefault() {
	p.expectKeyword("default")
	sw := p.currentSwitch("default")
	p.expectSymbol(':')
	if sw.HasDefault {
		p.fatalf("multiple default labels in one switch")
	}
	sw.HasDefault = true
	p.create(&ast.Default{})
}

// constantValue evaluates a number, optionally negated
func (p *Parser) constantValue(h ast.Handle) (int64, bool) {
	switch d := p.node(h).Data.(type) {
	case *ast.Number:
		return d.Value, true
	case *ast.Unary:
		if d.Op != "-" || d.Postfix {
			return 0, false
		}
		v, ok := p.constantValue(d.Operand)
		return -v, ok
	}
	return 0, false
}

func (p *Parser) parseGoto() {
	p.expectKeyword("goto")
	name := p.expectIdentifier()
	label := p.create(&ast.Identifier{Name: name})
	p.pop()
	p.expectSymbol(';')
	p.create(&ast.Goto{Label: label})
}

func (p *Parser) parseLabel() {
	name := p.expectIdentifier()
	p.expectSymbol(':')
	ident := p.create(&ast.Identifier{Name: name})
	p.pop()
	p.create(&ast.Label{Name: ident})
}
