package scope

import (
	"testing"

	"github.com/raymyers/peachcc/pkg/ast"
)

func TestPushAlignsSize(t *testing.T) {
	m := New()
	m.NewScope(0)
	m.Push(&Entity{Node: 1}, 4)
	m.Push(&Entity{Node: 2}, 17)
	if got := m.Current().Size; got != 16+32 {
		t.Errorf("Size = %d, want 48", got)
	}
	if got := m.Finish(); got != 48 {
		t.Errorf("Finish() = %d, want 48", got)
	}
	if !m.IsRoot() {
		t.Error("Finish did not return to the root scope")
	}
}

func TestLastEntityWalksParents(t *testing.T) {
	m := New()
	m.Push(&Entity{Node: 1}, 4) // global
	fn := m.NewScope(0)
	m.Push(&Entity{Node: 2, StackOffset: -4}, 4)
	m.NewScope(0)

	if e := m.LastEntity(); e == nil || e.Node != 2 {
		t.Fatalf("LastEntity() = %+v, want node 2", e)
	}
	m.Push(&Entity{Node: 3, StackOffset: -8}, 4)
	if e := m.LastEntity(); e.Node != 3 {
		t.Errorf("LastEntity() = %+v, want node 3", e)
	}

	m.Finish()
	if m.CurrentHandle() != fn {
		t.Fatalf("current = %d, want %d", m.CurrentHandle(), fn)
	}
	m.Finish()
	if e := m.LastEntity(); e == nil || e.Node != 1 {
		t.Errorf("LastEntity() at root = %+v, want node 1", e)
	}
}

func TestLastEntityStopAt(t *testing.T) {
	m := New()
	m.Push(&Entity{Node: 1}, 4)
	m.NewScope(0)
	if e := m.LastEntityStopAt(m.Root()); e != nil {
		t.Errorf("LastEntityStopAt(root) crossed into globals: %+v", e)
	}
	m.Push(&Entity{Node: 2}, 4)
	if e := m.LastEntityStopAt(m.Root()); e == nil || e.Node != 2 {
		t.Errorf("LastEntityStopAt(root) = %+v, want node 2", e)
	}
}

func TestLastEntityFunc(t *testing.T) {
	m := New()
	m.NewScope(0)
	m.Push(&Entity{Node: 1, Flags: EntityUpwardStack}, 4)
	m.Push(&Entity{Node: 2, Flags: EntityOnStack}, 4)
	m.Push(&Entity{Node: 3, Flags: EntityUpwardStack}, 4)

	onStack := func(e *Entity) bool { return e.Flags&EntityOnStack != 0 }
	if e := m.LastEntityFunc(m.Root(), onStack); e == nil || e.Node != 2 {
		t.Errorf("LastEntityFunc(onStack) = %+v, want node 2", e)
	}
	never := func(*Entity) bool { return false }
	if e := m.LastEntityFunc(None, never); e != nil {
		t.Errorf("LastEntityFunc(never) = %+v", e)
	}
}

func TestGetAndFree(t *testing.T) {
	m := New()
	h := m.NewScope(7)
	if m.Get(h).Flags != 7 || m.Get(h).Parent != m.Root() {
		t.Errorf("Get(%d) = %+v", h, m.Get(h))
	}
	if m.Get(m.Root()).Parent != None {
		t.Error("root has a parent")
	}
	m.Free()
	defer func() {
		if recover() == nil {
			t.Error("Get after Free did not panic")
		}
	}()
	m.Get(h)
}

func TestFinishRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New().Finish()
}

func TestEntityNode(t *testing.T) {
	e := &Entity{Node: ast.Handle(5), StackOffset: 8, Flags: EntityStructureMember}
	if !e.Node.Valid() || e.Flags&EntityStructureMember == 0 {
		t.Errorf("unexpected entity %+v", e)
	}
}
