package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs a tree as C-like source annotated with the computed layout
type Printer struct {
	w      io.Writer
	t      *Tree
	indent int
}

// NewPrinter creates a new tree printer
func NewPrinter(w io.Writer, t *Tree) *Printer {
	return &Printer{w: w, t: t}
}

// PrintTree prints every top-level node
func (p *Printer) PrintTree() {
	for _, h := range p.t.Root {
		p.printNode(h)
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printNode(h Handle) {
	n := p.t.Node(h)
	switch d := n.Data.(type) {
	case *Function:
		p.printFunction(d)
	case *Struct, *Union:
		p.printAggregate(h, n)
	case *VariableList:
		for _, v := range d.List {
			p.printNode(v)
		}
	case *Variable:
		p.writeIndent()
		p.printVariable(d)
		fmt.Fprintln(p.w, ";")
	default:
		p.printStmt(h)
	}
}

func (p *Printer) printVariable(v *Variable) {
	fmt.Fprintf(p.w, "%s %s", v.Type.String(), v.Name)
	for _, b := range v.Type.Array.Brackets {
		fmt.Fprintf(p.w, "[%s]", Format(p.t, p.t.Node(b).Data.(*Bracket).Inner))
	}
	if v.Value.Valid() {
		fmt.Fprintf(p.w, " = %s", Format(p.t, v.Value))
	}
	fmt.Fprintf(p.w, " /* offset=%d size=%d", v.Offset, v.Type.SizeOf())
	if v.Padding != 0 {
		fmt.Fprintf(p.w, " padding=%d", v.Padding)
	}
	fmt.Fprint(p.w, " */")
}

func (p *Printer) printFunction(f *Function) {
	fmt.Fprintf(p.w, "%s %s(", f.ReturnType.String(), f.Name)
	for i, arg := range f.Args {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printVariable(p.t.Node(arg).Data.(*Variable))
	}
	if f.Variadic {
		if len(f.Args) > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprint(p.w, "...")
	}
	if !f.Body.Valid() {
		if f.Native {
			fmt.Fprintln(p.w, "); /* native */")
		} else {
			fmt.Fprintln(p.w, ");")
		}
		return
	}
	fmt.Fprintf(p.w, ") /* stack=%d */\n", f.StackSize)
	p.printBlock(f.Body)
}

// printAggregate prints a struct or union and its combined variable
func (p *Printer) printAggregate(h Handle, n *Node) {
	keyword := strings.ToLower(n.Kind().String())
	name, _ := p.t.StructName(h)
	p.writeIndent()
	body, ok := p.t.StructBody(h)
	if n.Flags&FlagIsForwardDeclaration != 0 || !ok {
		fmt.Fprintf(p.w, "%s %s;\n", keyword, name)
		return
	}
	fmt.Fprintf(p.w, "%s %s", keyword, name)
	b := p.t.Node(body).Data.(*Body)
	fmt.Fprintf(p.w, " /* size=%d */\n", b.Size)
	p.printBlock(body)
	if v, ok := p.t.VariableNode(h); ok {
		p.printNode(v)
	}
}

func (p *Printer) printBlock(h Handle) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range p.t.Node(h).Data.(*Body).Statements {
		p.printNode(stmt)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

// printBranch prints a statement that may or may not be a braced body
func (p *Printer) printBranch(h Handle) {
	if p.t.Kind(h) == KindBody {
		p.printBlock(h)
		return
	}
	p.indent++
	p.printNode(h)
	p.indent--
}

func (p *Printer) printStmt(h Handle) {
	n := p.t.Node(h)
	switch s := n.Data.(type) {
	case *Body:
		p.printBlock(h)
	case *Return:
		p.writeIndent()
		if s.Exp.Valid() {
			fmt.Fprintf(p.w, "return %s;\n", Format(p.t, s.Exp))
		} else {
			fmt.Fprintln(p.w, "return;")
		}
	case *If:
		p.writeIndent()
		fmt.Fprintf(p.w, "if (%s)\n", Format(p.t, s.Cond))
		p.printBranch(s.Body)
		if s.Next.Valid() {
			p.printStmt(s.Next)
		}
	case *Else:
		p.writeIndent()
		fmt.Fprintln(p.w, "else")
		p.printBranch(s.Body)
	case *While:
		p.writeIndent()
		fmt.Fprintf(p.w, "while (%s)\n", Format(p.t, s.Cond))
		p.printBranch(s.Body)
	case *DoWhile:
		p.writeIndent()
		fmt.Fprintln(p.w, "do")
		p.printBranch(s.Body)
		p.writeIndent()
		fmt.Fprintf(p.w, "while (%s);\n", Format(p.t, s.Cond))
	case *For:
		p.writeIndent()
		fmt.Fprintf(p.w, "for (%s; %s; %s)\n", p.forPart(s.Init), Format(p.t, s.Cond), Format(p.t, s.Loop))
		p.printBranch(s.Body)
	case *Break:
		p.writeIndent()
		fmt.Fprintln(p.w, "break;")
	case *Continue:
		p.writeIndent()
		fmt.Fprintln(p.w, "continue;")
	case *Switch:
		p.writeIndent()
		fmt.Fprintf(p.w, "switch (%s)\n", Format(p.t, s.Exp))
		p.printBranch(s.Body)
	case *Case:
		p.writeIndent()
		fmt.Fprintf(p.w, "case %s:\n", Format(p.t, s.Exp))
	case *Default:
		p.writeIndent()
		fmt.Fprintln(p.w, "default:")
	case *Goto:
		p.writeIndent()
		fmt.Fprintf(p.w, "goto %s;\n", Format(p.t, s.Label))
	case *Label:
		p.writeIndent()
		fmt.Fprintf(p.w, "%s:\n", Format(p.t, s.Name))
	case *Blank:
		p.writeIndent()
		fmt.Fprintln(p.w, ";")
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "%s;\n", Format(p.t, h))
	}
}

func (p *Printer) forPart(h Handle) string {
	if v, ok := p.t.Variable(h); ok {
		return fmt.Sprintf("%s %s = %s", v.Type.String(), v.Name, Format(p.t, v.Value))
	}
	return Format(p.t, h)
}

// Format renders an expression with every binary operation parenthesized,
// exposing the shape of the tree.
func Format(t *Tree, h Handle) string {
	n, ok := t.Lookup(h)
	if !ok {
		return ""
	}
	switch d := n.Data.(type) {
	case *Number:
		return fmt.Sprintf("%d", d.Value)
	case *Identifier:
		return d.Name
	case *String:
		return fmt.Sprintf("%q", d.Value)
	case *Parentheses:
		return "(" + Format(t, d.Exp) + ")"
	case *Bracket:
		return "[" + Format(t, d.Inner) + "]"
	case *Unary:
		if d.Postfix {
			return Format(t, d.Operand) + d.Op
		}
		if d.Op == "*" && d.Depth > 1 {
			return strings.Repeat(d.Op, d.Depth) + Format(t, d.Operand)
		}
		return d.Op + Format(t, d.Operand)
	case *Cast:
		return "(" + d.Type.String() + ")" + Format(t, d.Operand)
	case *Ternary:
		return Format(t, d.True) + " : " + Format(t, d.False)
	case *Variable:
		return d.Name
	case *Blank:
		return ""
	case *Expression:
		switch d.Op {
		case "()", "[]":
			// the right side is already a Parentheses or Bracket node
			return Format(t, d.Left) + Format(t, d.Right)
		case ".", "->":
			return Format(t, d.Left) + d.Op + Format(t, d.Right)
		case ",":
			return Format(t, d.Left) + ", " + Format(t, d.Right)
		}
		return "(" + Format(t, d.Left) + " " + d.Op + " " + Format(t, d.Right) + ")"
	}
	return fmt.Sprintf("<%s>", n.Kind())
}
