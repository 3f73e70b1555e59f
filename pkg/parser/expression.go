package parser

import (
	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/lexer"
)

// parseExpressionable parses tokens until one ends the expression and leaves
// at most one node on the stack. It reports whether a node was produced.
func (p *Parser) parseExpressionable(h history) bool {
	base := len(p.stack)
	for {
		tok := p.cur.PeekNext()
		if endsExpression(tok, h) {
			break
		}
		if len(p.stack) == base {
			p.parsePrimary(h)
			continue
		}
		if p.parsePostfixOperation(h) {
			continue
		}
		if tok.Type != lexer.TokenOperator {
			p.fatalf("unexpected %s after expression", describe(tok))
		}
		if tok.Str == "?" {
			p.parseTernary(h)
			continue
		}
		p.parseBinary(h)
	}
	if len(p.stack) > base+1 {
		p.fatalf("internal error: expression left %d nodes", len(p.stack)-base)
	}
	return len(p.stack) == base+1
}

// parseExpression parses a mandatory expression and pops it
func (p *Parser) parseExpression(h history) ast.Handle {
	if !p.parseExpressionable(h) {
		p.fatalf("expected an expression, got %s", describe(p.cur.PeekNext()))
	}
	return p.pop()
}

// parseOptionalExpression is parseExpression for places an expression may
// be left out, such as the parts of a for header
func (p *Parser) parseOptionalExpression(h history) ast.Handle {
	if !p.parseExpressionable(h) {
		return ast.NoNode
	}
	return p.pop()
}

func endsExpression(tok *lexer.Token, h history) bool {
	if tok == nil || tok.Type == lexer.TokenSymbol {
		return true
	}
	return tok.IsOperator(",") && h.has(historyNoComma)
}

// parsePrimary parses a single operand: a literal, an identifier, a
// parenthesized expression, a cast or a prefix unary operation
func (p *Parser) parsePrimary(h history) {
	tok := p.cur.PeekNext()
	if tok == nil {
		p.fatalf("unexpected end of input in expression")
	}
	switch tok.Type {
	case lexer.TokenNumber:
		p.next()
		p.create(&ast.Number{Value: tok.Num})
	case lexer.TokenString:
		p.next()
		p.create(&ast.String{Value: tok.Str})
	case lexer.TokenIdentifier:
		p.next()
		p.create(&ast.Identifier{Name: tok.Str})
	case lexer.TokenOperator:
		switch {
		case tok.Str == "(":
			if p.isCastAhead() {
				p.parseCast(h)
			} else {
				p.parseParentheses(h)
			}
		case isUnaryOperator(tok.Str):
			p.parseUnary(h)
		default:
			p.fatalf("expected an expression before '%s'", tok.Str)
		}
	case lexer.TokenKeyword:
		p.fatalf("unexpected keyword '%s' in expression", tok.Str)
	default:
		p.fatalf("expected an expression, got %s", describe(tok))
	}
}

// parseUnaryOperand parses the operand of a prefix operator or cast: one
// primary followed by its postfix operations
func (p *Parser) parseUnaryOperand(h history) ast.Handle {
	p.parsePrimary(h)
	for p.parsePostfixOperation(h) {
	}
	return p.pop()
}

// parsePostfixOperation applies a call, index, member access or postfix
// increment to the node on top of the stack
func (p *Parser) parsePostfixOperation(h history) bool {
	tok := p.cur.PeekNext()
	if tok == nil || tok.Type != lexer.TokenOperator {
		return false
	}
	switch tok.Str {
	case "(":
		p.parseCall(h)
	case "[":
		p.parseIndex(h)
	case ".", "->":
		p.parseMemberAccess(h)
	case "++", "--":
		p.next()
		operand := p.pop()
		p.markInsideExpression(operand)
		p.create(&ast.Unary{Op: tok.Str, Operand: operand, Postfix: true})
	default:
		return false
	}
	return true
}

func (p *Parser) markInsideExpression(handles ...ast.Handle) {
	for _, h := range handles {
		if n, ok := p.tree.Lookup(h); ok {
			n.Flags |= ast.FlagInsideExpression
		}
	}
}

// createExpression builds a binary expression from its parts
func (p *Parser) createExpression(left ast.Handle, op string, right ast.Handle) ast.Handle {
	p.markInsideExpression(left, right)
	return p.create(&ast.Expression{Left: left, Op: op, Right: right})
}

func (p *Parser) parseBinary(h history) {
	left := p.pop()
	op := p.next().Str
	if !isBinaryOperator(op) {
		p.fatalf("'%s' is not a binary operator", op)
	}
	if !p.parseExpressionable(h) {
		p.fatalf("expected an expression after '%s'", op)
	}
	right := p.pop()
	exp := p.createExpression(left, op, right)
	p.reorder(exp)
}

// parseCall parses an argument list applied to the node on top of the stack
func (p *Parser) parseCall(h history) {
	callee := p.pop()
	p.expectOperator("(")
	args := p.parseOptionalExpression(h.without(historyNoComma))
	p.expectSymbol(')')
	parens := p.create(&ast.Parentheses{Exp: args})
	p.pop()
	p.markInsideExpression(args)
	p.createExpression(callee, "()", parens)
}

func (p *Parser) parseIndex(h history) {
	array := p.pop()
	p.expectOperator("[")
	inner := p.parseExpression(h.without(historyNoComma))
	p.expectSymbol(']')
	bracket := p.create(&ast.Bracket{Inner: inner})
	p.pop()
	p.markInsideExpression(inner)
	p.createExpression(array, "[]", bracket)
}

func (p *Parser) parseMemberAccess(h history) {
	left := p.pop()
	op := p.next().Str
	name := p.expectIdentifier()
	member := p.create(&ast.Identifier{Name: name})
	p.pop()
	p.createExpression(left, op, member)
}

func (p *Parser) parseParentheses(h history) {
	p.expectOperator("(")
	inner := p.parseExpression(h.without(historyNoComma))
	p.expectSymbol(')')
	p.markInsideExpression(inner)
	p.create(&ast.Parentheses{Exp: inner})
}

// isCastAhead reports whether the next "(" opens a cast
func (p *Parser) isCastAhead() bool {
	tok := p.cur.PeekAt(1)
	return tok != nil && tok.Type == lexer.TokenKeyword && isDatatypeKeyword(tok.Str)
}

func (p *Parser) parseCast(h history) {
	p.expectOperator("(")
	dt := p.parseDatatype()
	p.parsePointers(&dt)
	p.expectSymbol(')')
	operand := p.parseUnaryOperand(h)
	p.markInsideExpression(operand)
	p.create(&ast.Cast{Type: dt, Operand: operand})
}

func (p *Parser) parseUnary(h history) {
	op := p.next().Str
	operand := p.parseUnaryOperand(h)
	p.markInsideExpression(operand)
	depth := 0
	if op == "*" {
		depth = 1
		// consecutive indirections collapse into one node
		if inner, ok := p.node(operand).Data.(*ast.Unary); ok && inner.Op == "*" && !inner.Postfix {
			depth += inner.Depth
			operand = inner.Operand
		}
	}
	p.create(&ast.Unary{Op: op, Operand: operand, Depth: depth})
}

// parseTernary parses "? a : b" with the node on top of the stack as the
// condition
func (p *Parser) parseTernary(h history) {
	cond := p.pop()
	p.expectOperator("?")
	whenTrue := p.parseExpression(h.without(historyNoComma))
	p.expectSymbol(':')
	// the comma operator binds looser than ?:
	whenFalse := p.parseExpression(h.with(historyNoComma))
	p.markInsideExpression(whenTrue, whenFalse)
	ternary := p.create(&ast.Ternary{True: whenTrue, False: whenFalse})
	p.pop()
	p.createExpression(cond, "?", ternary)
}
