// Package parser implements a single pass recursive descent parser for a
// subset of C. Besides building the syntax tree it lays out variables on the
// stack and inside structs, registers structs and functions as symbols and
// defers references to structs that are not yet defined.
package parser

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/raymyers/peachcc/pkg/ast"
	"github.com/raymyers/peachcc/pkg/fixup"
	"github.com/raymyers/peachcc/pkg/lexer"
	"github.com/raymyers/peachcc/pkg/scope"
	"github.com/raymyers/peachcc/pkg/symbols"
)

// Stack argument base: saved frame pointer and return address
const (
	ArgStackAddition = 8
	// StructReturnAddition is added for functions returning a struct or
	// union through a hidden pointer
	StructReturnAddition = 4
)

// ErrAlreadyParsed is returned when Parse is called a second time
var ErrAlreadyParsed = errors.New("parser: tokens already parsed")

// Parser holds the state of one parse
type Parser struct {
	cur *Cursor

	tree  *ast.Tree
	stack []ast.Handle

	scopes  *scope.Manager
	symbols *symbols.Resolver
	fixups  *fixup.System

	// enclosing body and function of the node being parsed
	body     ast.Handle
	function ast.Handle
	switches []ast.Handle

	anonymous int
	natives   []string
	log       logrus.FieldLogger
	warnings  []string
	done      bool
}

// Option configures a Parser
type Option func(*Parser)

// WithNatives registers builtin functions before parsing starts
func WithNatives(names ...string) Option {
	return func(p *Parser) {
		p.natives = append(p.natives, names...)
	}
}

// WithLogger sets the logger warnings and traces are written to
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// New creates a parser over tokens
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{
		cur:  NewCursor(tokens),
		tree: ast.NewTree(),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses tokens into a tree
func Parse(tokens []lexer.Token, opts ...Option) (*ast.Tree, error) {
	return New(tokens, opts...).Parse()
}

// Parse parses every token. A fatal error stops the parse and is returned as
// an *Error.
func (p *Parser) Parse() (tree *ast.Tree, err error) {
	if p.done {
		return nil, ErrAlreadyParsed
	}
	p.done = true

	p.scopes = scope.New()
	p.symbols = symbols.New()
	p.symbols.NewTable()
	p.fixups = fixup.New()
	defer p.teardown()

	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(fatalError)
			if !ok {
				panic(r)
			}
			tree, err = nil, fe.err
		}
	}()

	for _, name := range p.natives {
		if p.symbols.RegisterNative(symbols.NativeFunction{Name: name}) == nil {
			p.fatalf("native function %s registered twice", name)
		}
	}

	for p.cur.PeekNext() != nil {
		if p.parseNext() {
			p.promote()
		}
	}
	if !p.scopes.IsRoot() {
		p.fatalf("internal error: unbalanced scopes")
	}
	p.checkStack()
	p.resolveFixups()
	p.log.WithFields(logrus.Fields{
		"nodes":   p.tree.Len(),
		"symbols": p.symbols.Len(),
	}).Debug("parse finished")
	return p.tree, nil
}

// Warnings returns every warning reported while parsing
func (p *Parser) Warnings() []string {
	return p.warnings
}

func (p *Parser) teardown() {
	p.fixups.Close()
	p.symbols.EndTable()
	p.scopes.Free()
}

// parseNext parses one top-level construct and reports whether it left a
// node on the stack
func (p *Parser) parseNext() bool {
	h := newHistory(historyIsGlobalScope)
	tok := p.cur.PeekNext()
	switch {
	case tok.IsSymbol(';'):
		p.next()
		return false
	case tok.IsSymbol('#'):
		p.fatalf("preprocessor directives are not supported")
	case tok.Type == lexer.TokenKeyword && isDeclarationKeyword(tok.Str):
		p.parseDeclaration(h)
		return true
	}
	p.fatalf("expected a declaration, got %s", describe(tok))
	return false
}
