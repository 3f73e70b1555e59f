package parser

import (
	"strings"
	"testing"

	"github.com/raymyers/peachcc/pkg/ast"
)

func TestGlobalOffsets(t *testing.T) {
	tree, _ := parse(t, "int a; char b; int c;")
	for _, h := range tree.Root {
		if v := variable(t, tree, h); v.Offset != 0 || v.Padding != 0 {
			t.Errorf("global %s at offset %d padding %d", v.Name, v.Offset, v.Padding)
		}
	}
}

func TestLocalOffsets(t *testing.T) {
	tree, _ := parse(t, "int g; void f() { int a; char b; int c; short d; }")
	fn := function(t, tree, tree.Root[1])
	stmts := statements(t, tree, fn.Body)

	want := []struct {
		offset, padding int
	}{
		{-4, 0},
		{-5, 0},
		{-12, 3},
		{-14, 0},
	}
	for i, w := range want {
		v := variable(t, tree, stmts[i])
		if v.Offset != w.offset || v.Padding != w.padding {
			t.Errorf("%s: offset %d padding %d, want %d, %d", v.Name, v.Offset, v.Padding, w.offset, w.padding)
		}
	}
	// 4+1+4+2 plus 3 bytes of padding, aligned to 4
	if fn.StackSize != 16 {
		t.Errorf("StackSize = %d, want 16", fn.StackSize)
	}
}

func TestOffsetMonotonicity(t *testing.T) {
	sources := []string{
		"void f() { int a; int b; int c; }",
		"void f() { char a; char b; short c; int d; }",
		"void f() { int a; char b; int c; }",
		"void f() { int a[3]; char *p; int n; }",
		"void f(int x, char y) { int a, b; char c[4]; int d; }",
	}
	for _, src := range sources {
		tree, _ := parse(t, src)
		fn := function(t, tree, tree.Root[0])

		var vars []*ast.Variable
		for _, stmt := range statements(t, tree, fn.Body) {
			n := tree.Node(stmt)
			switch d := n.Data.(type) {
			case *ast.Variable:
				vars = append(vars, d)
			case *ast.VariableList:
				for _, h := range d.List {
					vars = append(vars, variable(t, tree, h))
				}
			}
		}

		sum := 0
		prev := 0
		for _, v := range vars {
			if -v.Offset <= prev {
				t.Errorf("%s: %s at %d does not grow past %d", src, v.Name, v.Offset, -prev)
			}
			prev = -v.Offset
			sum += v.Type.SizeOf() + v.Padding
		}
		if sum != fn.StackSize {
			t.Errorf("%s: sizes and padding add up to %d, StackSize %d", src, sum, fn.StackSize)
		}
		if -vars[len(vars)-1].Offset != sum {
			t.Errorf("%s: last offset %d, want %d", src, vars[len(vars)-1].Offset, -sum)
		}
	}
}

func TestParameterOffsets(t *testing.T) {
	tree, _ := parse(t, "int f(int a, char b, int c, char *s) { return a; }")
	fn := function(t, tree, tree.Root[0])
	if fn.ArgStackAddition != ArgStackAddition {
		t.Errorf("ArgStackAddition = %d", fn.ArgStackAddition)
	}
	want := []int{8, 12, 16, 20}
	for i, w := range want {
		if v := variable(t, tree, fn.Args[i]); v.Offset != w {
			t.Errorf("%s at %d, want %d", v.Name, v.Offset, w)
		}
	}
	if c := variable(t, tree, fn.Args[2]); c.Padding != 3 {
		t.Errorf("c padding = %d, want 3", c.Padding)
	}
	if fn.StackSize != 0 {
		t.Errorf("parameters counted in StackSize: %d", fn.StackSize)
	}
}

func TestStructReturnShiftsArguments(t *testing.T) {
	tree, _ := parse(t, "struct P { int x; }; struct P make(int a) { struct P p; return p; }")
	fn := function(t, tree, tree.Root[1])
	if fn.ArgStackAddition != ArgStackAddition+StructReturnAddition {
		t.Errorf("ArgStackAddition = %d", fn.ArgStackAddition)
	}
	if a := variable(t, tree, fn.Args[0]); a.Offset != 12 {
		t.Errorf("a at %d, want 12", a.Offset)
	}
	p := variable(t, tree, statements(t, tree, fn.Body)[0])
	if p.Offset != -4 || p.Padding != 0 {
		t.Errorf("p at %d padding %d", p.Offset, p.Padding)
	}
}

func TestLocalsIgnoreParameters(t *testing.T) {
	tree, _ := parse(t, "void f(int a) { int b; }")
	fn := function(t, tree, tree.Root[0])
	if b := variable(t, tree, statements(t, tree, fn.Body)[0]); b.Offset != -4 {
		t.Errorf("b at %d, want -4", b.Offset)
	}
}

func TestNestedBlocks(t *testing.T) {
	tree, _ := parse(t, "void f() { int a; { int b; } if (a) { int c; int d; } }")
	fn := function(t, tree, tree.Root[0])
	stmts := statements(t, tree, fn.Body)

	inner := statements(t, tree, stmts[1])
	if b := variable(t, tree, inner[0]); b.Offset != -8 {
		t.Errorf("b at %d, want -8", b.Offset)
	}
	ifBody := statements(t, tree, tree.Node(stmts[2]).Data.(*ast.If).Body)
	if d := variable(t, tree, ifBody[1]); d.Offset != -12 {
		t.Errorf("d at %d, want -12", d.Offset)
	}
	// every body adds its own size: 4 + 4 + 8
	if fn.StackSize != 16 {
		t.Errorf("StackSize = %d, want 16", fn.StackSize)
	}
}

func TestForInitDeclaration(t *testing.T) {
	tree, _ := parse(t, "void f() { for (int i = 0; i < 10; i++) { } }")
	fn := function(t, tree, tree.Root[0])
	loop := tree.Node(statements(t, tree, fn.Body)[0]).Data.(*ast.For)
	i := variable(t, tree, loop.Init)
	if i.Offset != -4 || ast.Format(tree, i.Value) != "0" {
		t.Errorf("i at %d = %s", i.Offset, ast.Format(tree, i.Value))
	}
	if fn.StackSize != 4 {
		t.Errorf("StackSize = %d, want 4", fn.StackSize)
	}
}

func TestStructMemberLayout(t *testing.T) {
	tests := []struct {
		src     string
		offsets []int
		size    int
	}{
		{"struct S { int a; int b; };", []int{0, 4}, 8},
		{"struct S { char c; int i; };", []int{0, 4}, 8},
		{"struct S { int i; char c; };", []int{0, 4}, 8},
		{"struct S { char a; short b; char c; };", []int{0, 2, 4}, 6},
		{"struct S { char a; char *p; };", []int{0, 4}, 8},
		{"struct S { char a; char b[3]; int c; };", []int{0, 1, 4}, 8},
	}
	for _, tt := range tests {
		tree, _ := parse(t, tt.src)
		st := tree.Node(tree.Root[0]).Data.(*ast.Struct)
		members := statements(t, tree, st.Body)
		for i, want := range tt.offsets {
			if v := variable(t, tree, members[i]); v.Offset != want {
				t.Errorf("%s: %s at %d, want %d", tt.src, v.Name, v.Offset, want)
			}
		}
		if b, _ := tree.Body(st.Body); b.Size != tt.size {
			t.Errorf("%s: size %d, want %d", tt.src, b.Size, tt.size)
		}
	}
}

func TestStructMembersIgnoreGlobals(t *testing.T) {
	tree, _ := parse(t, "int g; char h; struct S { int a; };")
	st := tree.Node(tree.Root[2]).Data.(*ast.Struct)
	if a := variable(t, tree, statements(t, tree, st.Body)[0]); a.Offset != 0 {
		t.Errorf("first member at %d, want 0", a.Offset)
	}
}

func TestLocalStructDefinition(t *testing.T) {
	tree, _ := parse(t, "void f() { struct P { int x; int y; } p; int n; }")
	fn := function(t, tree, tree.Root[0])
	stmts := statements(t, tree, fn.Body)
	st := tree.Node(stmts[0]).Data.(*ast.Struct)
	if p := variable(t, tree, st.Var); p.Offset != -8 {
		t.Errorf("p at %d, want -8", p.Offset)
	}
	if n := variable(t, tree, stmts[1]); n.Offset != -12 {
		t.Errorf("n at %d, want -12", n.Offset)
	}
	if fn.StackSize != 12 {
		t.Errorf("StackSize = %d, want 12", fn.StackSize)
	}
}

func TestIncompleteStructType(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"void f() { struct P p; int after; } struct P { int x; int y; };", "p has incomplete type struct P"},
		{"void f(struct P p, int after) { } struct P { int x; };", "p has incomplete type struct P"},
		{"struct A { struct B b; int z; }; struct B { int x; };", "b has incomplete type struct B"},
		{"union U { struct B b; char c; }; struct B { int x; };", "b has incomplete type struct B"},
		{"void f() { union V v; }", "v has incomplete type union V"},
	}
	for _, tt := range tests {
		err := parseError(t, tt.src)
		if !strings.Contains(err.Msg, tt.want) {
			t.Errorf("%s: unexpected error %v", tt.src, err)
		}
	}

	// a pointer needs no definition, and a global waits for it
	tree, _ := parse(t, "void f() { struct P *p; int after; } struct P q; struct P { int x; int y; };")
	stmts := statements(t, tree, function(t, tree, tree.Root[0]).Body)
	if after := variable(t, tree, stmts[1]); after.Offset != -8 {
		t.Errorf("after at %d, want -8", after.Offset)
	}
	if g := variable(t, tree, tree.Root[1]); g.Type.SizeOf() != 8 {
		t.Errorf("q size %d, want 8", g.Type.SizeOf())
	}
}
