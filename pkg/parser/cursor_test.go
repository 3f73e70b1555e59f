package parser

import (
	"testing"

	"github.com/raymyers/peachcc/pkg/ast"
)

func TestCursorSkipsComments(t *testing.T) {
	c := NewCursor(tokenize(t, "int // trailing\n/* block */ x\n;"))

	if tok := c.PeekAt(1); !tok.IsIdentifier() || tok.Str != "x" {
		t.Errorf("PeekAt(1) = %v, want x", tok)
	}
	if tok := c.PeekAt(3); tok != nil {
		t.Errorf("PeekAt(3) = %v, want nil", tok)
	}

	var got []string
	for tok := c.Next(); tok != nil; tok = c.Next() {
		got = append(got, tok.Text())
	}
	want := []string{"int", "x", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
	if c.PeekNext() != nil || c.Next() != nil {
		t.Error("expected end of input")
	}
	if c.Pos().Line != 3 {
		t.Errorf("Pos() = %s, want line 3", c.Pos())
	}
}

func TestCursorPosition(t *testing.T) {
	c := NewCursor(tokenize(t, "a\n  b"))
	if c.Pos().Line != 1 || c.Pos().Col != 1 {
		t.Errorf("initial Pos() = %s", c.Pos())
	}
	c.Next()
	c.PeekNext()
	if c.Pos().Line != 1 {
		t.Errorf("peeking moved the position to %s", c.Pos())
	}
	c.Next()
	if c.Pos().Line != 2 || c.Pos().Col != 3 {
		t.Errorf("Pos() = %s, want 2:3", c.Pos())
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(nil)
	if c.PeekNext() != nil || c.PeekAt(2) != nil || c.Next() != nil {
		t.Error("empty cursor returned a token")
	}
}

func TestNodeStack(t *testing.T) {
	p := New(nil)

	a := p.create(&ast.Number{Value: 1})
	p.promote()
	b := p.create(&ast.Number{Value: 2})
	if p.peek() != b || p.peekExpressionableOrNull() != b {
		t.Fatalf("peek = %d, want %d", p.peek(), b)
	}

	// popping a promoted node removes it from the root as well
	p.pop()
	if got := p.pop(); got != a {
		t.Fatalf("pop = %d, want %d", got, a)
	}
	if len(p.tree.Root) != 0 {
		t.Errorf("root still lists %v", p.tree.Root)
	}
	if p.peekOrNull().Valid() {
		t.Error("peekOrNull on an empty stack returned a node")
	}

	p.create(&ast.Blank{})
	if p.peekExpressionableOrNull().Valid() {
		t.Error("a blank node is not an operand")
	}
}

func TestPopEmptyStackIsFatal(t *testing.T) {
	p := New(nil)
	defer func() {
		r := recover()
		fe, ok := r.(fatalError)
		if !ok {
			t.Fatalf("recovered %v, want fatalError", r)
		}
		if fe.err.Msg == "" {
			t.Error("fatal error without message")
		}
	}()
	p.pop()
}

func TestCreateBindsToBodyAndFunction(t *testing.T) {
	p := New(nil)
	p.body = 3
	p.function = 2
	h := p.create(&ast.Blank{})
	if b := p.tree.Node(h).Binding; b.Owner != 3 || b.Function != 2 {
		t.Errorf("binding = %+v", b)
	}
}
