package parser

import "github.com/raymyers/peachcc/pkg/lexer"

// Cursor walks a token sequence, hiding comments and newlines
type Cursor struct {
	tokens []lexer.Token
	idx    int
	pos    lexer.Pos
}

// NewCursor creates a cursor at the first token
func NewCursor(tokens []lexer.Token) *Cursor {
	c := &Cursor{tokens: tokens}
	if len(tokens) > 0 {
		c.pos = tokens[0].Pos
	}
	return c
}

func (c *Cursor) skip() {
	for c.idx < len(c.tokens) && c.tokens[c.idx].IsNewlineOrComment() {
		c.idx++
	}
}

// PeekNext returns the next significant token without consuming it, or nil
// at the end of input
func (c *Cursor) PeekNext() *lexer.Token {
	return c.PeekAt(0)
}

// PeekAt returns the significant token n positions ahead of the next one
func (c *Cursor) PeekAt(n int) *lexer.Token {
	c.skip()
	for i := c.idx; i < len(c.tokens); i++ {
		if c.tokens[i].IsNewlineOrComment() {
			continue
		}
		if n == 0 {
			return &c.tokens[i]
		}
		n--
	}
	return nil
}

// Next consumes the next significant token and moves the current position
// to it
func (c *Cursor) Next() *lexer.Token {
	tok := c.PeekNext()
	if tok == nil {
		return nil
	}
	c.idx++
	c.pos = tok.Pos
	return tok
}

// Pos is the position of the last consumed token
func (c *Cursor) Pos() lexer.Pos {
	return c.pos
}

func (p *Parser) next() *lexer.Token {
	return p.cur.Next()
}

func (p *Parser) expectSymbol(c byte) {
	if tok := p.next(); !tok.IsSymbol(c) {
		p.fatalf("expected '%c', got %s", c, describe(tok))
	}
}

func (p *Parser) expectOperator(op string) {
	if tok := p.next(); !tok.IsOperator(op) {
		p.fatalf("expected '%s', got %s", op, describe(tok))
	}
}

func (p *Parser) expectKeyword(kw string) {
	if tok := p.next(); !tok.IsKeyword(kw) {
		p.fatalf("expected '%s', got %s", kw, describe(tok))
	}
}

func (p *Parser) expectIdentifier() string {
	tok := p.next()
	if !tok.IsIdentifier() {
		p.fatalf("expected an identifier, got %s", describe(tok))
	}
	return tok.Str
}
