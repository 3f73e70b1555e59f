// Package symbols maps names of structs, unions and functions to the nodes
// that define them. Tables are stacked so a block can shadow its parent, but
// lookups only ever consult the active table.
package symbols

import "github.com/raymyers/peachcc/pkg/ast"

// Kind classifies a symbol
type Kind int

const (
	KindNode Kind = iota
	KindNativeFunction
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindNativeFunction:
		return "native function"
	}
	return "unknown"
}

// NativeFunction describes a builtin provided by the host
type NativeFunction struct {
	Name string
}

// Symbol is one named entry in a table
type Symbol struct {
	Name   string
	Kind   Kind
	Node   ast.Handle
	Native *NativeFunction
}

type table struct {
	symbols []*Symbol
}

// Resolver is a stack of symbol tables
type Resolver struct {
	tables []*table
	active *table
}

// New creates a resolver without any table
func New() *Resolver {
	return &Resolver{}
}

// NewTable pushes a fresh table and makes it active
func (r *Resolver) NewTable() {
	if r.active != nil {
		r.tables = append(r.tables, r.active)
	}
	r.active = &table{}
}

// EndTable discards the active table and restores the previous one
func (r *Resolver) EndTable() {
	if n := len(r.tables); n > 0 {
		r.active = r.tables[n-1]
		r.tables = r.tables[:n-1]
		return
	}
	r.active = nil
}

// Register adds a symbol to the active table. It returns nil when the name
// is already taken.
func (r *Resolver) Register(name string, kind Kind, node ast.Handle, native *NativeFunction) *Symbol {
	if r.active == nil {
		panic("symbols: no active table")
	}
	if r.Get(name) != nil {
		return nil
	}
	sym := &Symbol{Name: name, Kind: kind, Node: node, Native: native}
	r.active.symbols = append(r.active.symbols, sym)
	return sym
}

// RegisterNative registers a builtin function
func (r *Resolver) RegisterNative(fn NativeFunction) *Symbol {
	return r.Register(fn.Name, KindNativeFunction, ast.NoNode, &fn)
}

// Get returns the first symbol named name in the active table, or nil
func (r *Resolver) Get(name string) *Symbol {
	if r.active == nil {
		return nil
	}
	for _, sym := range r.active.symbols {
		if sym.Name == name {
			return sym
		}
	}
	return nil
}

// GetNativeFunction is Get restricted to native functions
func (r *Resolver) GetNativeFunction(name string) *NativeFunction {
	sym := r.Get(name)
	if sym == nil || sym.Kind != KindNativeFunction {
		return nil
	}
	return sym.Native
}

// NodeFor returns the node a symbol is backed by
func (r *Resolver) NodeFor(sym *Symbol) (ast.Handle, bool) {
	if sym == nil || sym.Kind != KindNode {
		return ast.NoNode, false
	}
	return sym.Node, true
}

// Len returns the number of symbols in the active table
func (r *Resolver) Len() int {
	if r.active == nil {
		return 0
	}
	return len(r.active.symbols)
}
