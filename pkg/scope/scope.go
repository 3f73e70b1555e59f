// Package scope tracks nested lexical scopes and the entities declared in
// them while the parser computes stack offsets. Scopes live in an arena owned
// by a Manager and link to their parent by handle.
package scope

import (
	"fmt"

	"github.com/raymyers/peachcc/pkg/align"
	"github.com/raymyers/peachcc/pkg/ast"
)

// Alignment is the boundary every pushed entity size is rounded up to
const Alignment = 16

// Handle identifies a scope in the manager's arena
type Handle int

// None is the parent of the root scope
const None Handle = -1

// EntityFlags describe where an entity lives
type EntityFlags int

const (
	// EntityOnStack marks local variables below the frame base
	EntityOnStack EntityFlags = 1 << iota
	// EntityUpwardStack marks parameters above the frame base
	EntityUpwardStack
	// EntityStructureMember marks struct and union members
	EntityStructureMember
)

// Entity is a variable declared in a scope together with its offset
type Entity struct {
	Node        ast.Handle
	StackOffset int
	Flags       EntityFlags
}

// Scope is one lexical region
type Scope struct {
	Flags    int
	Entities []*Entity
	Size     int
	Parent   Handle
}

// Manager owns the scope arena and the current scope
type Manager struct {
	scopes  []*Scope
	root    Handle
	current Handle
}

// New creates a manager holding only the root scope
func New() *Manager {
	m := &Manager{}
	m.scopes = append(m.scopes, &Scope{Parent: None})
	m.root = 0
	m.current = 0
	return m
}

// NewScope opens a child of the current scope and makes it current
func (m *Manager) NewScope(flags int) Handle {
	m.scopes = append(m.scopes, &Scope{Flags: flags, Parent: m.current})
	m.current = Handle(len(m.scopes) - 1)
	return m.current
}

// Finish closes the current scope and returns its accumulated size
func (m *Manager) Finish() int {
	s := m.Current()
	if s.Parent == None {
		panic("scope: cannot finish the root scope")
	}
	m.current = s.Parent
	return s.Size
}

// Push appends an entity to the current scope
func (m *Manager) Push(e *Entity, size int) {
	s := m.Current()
	s.Entities = append(s.Entities, e)
	s.Size += align.Value(size, Alignment)
}

// LastEntity returns the most recently declared entity visible from the
// current scope, or nil
func (m *Manager) LastEntity() *Entity {
	return m.LastEntityFunc(None, nil)
}

// LastEntityStopAt is LastEntity that never looks into stop or its ancestors
func (m *Manager) LastEntityStopAt(stop Handle) *Entity {
	return m.LastEntityFunc(stop, nil)
}

// LastEntityFunc walks from the current scope upward, most recent entity
// first, returning the first entity accepted by pred. The walk ends before
// reaching stop. A nil pred accepts everything.
func (m *Manager) LastEntityFunc(stop Handle, pred func(*Entity) bool) *Entity {
	for h := m.current; h != None && h != stop; h = m.Get(h).Parent {
		entities := m.Get(h).Entities
		for i := len(entities) - 1; i >= 0; i-- {
			if pred == nil || pred(entities[i]) {
				return entities[i]
			}
		}
	}
	return nil
}

// CurrentHandle returns the handle of the current scope
func (m *Manager) CurrentHandle() Handle {
	return m.current
}

// Current returns the current scope
func (m *Manager) Current() *Scope {
	return m.Get(m.current)
}

// Root returns the handle of the root scope
func (m *Manager) Root() Handle {
	return m.root
}

// IsRoot reports whether the current scope is the root
func (m *Manager) IsRoot() bool {
	return m.current == m.root
}

// Get returns the scope for h
func (m *Manager) Get(h Handle) *Scope {
	if h < 0 || int(h) >= len(m.scopes) {
		panic(fmt.Sprintf("scope: invalid handle %d", h))
	}
	return m.scopes[h]
}

// Free releases every scope. The manager must not be used afterwards.
func (m *Manager) Free() {
	m.scopes = nil
	m.current = None
}
