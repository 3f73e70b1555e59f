// Package fixup implements deferred resolution of references that cannot be
// completed at the point they are parsed, such as a struct used as a variable
// type before the struct's body has been seen.
package fixup

// Resolver is the pending action behind a fixup. Each kind of forward
// reference supplies its own implementation.
type Resolver interface {
	// Fix attempts the resolution and reports whether it succeeded.
	Fix() bool
	// End releases anything held by the resolver. It is called exactly once,
	// when the owning system is closed.
	End()
}

// Flags describe the state of a fixup.
type Flags int

const (
	FlagResolved Flags = 1 << iota
)

// Fixup is a single registered deferred action.
type Fixup struct {
	flags    Flags
	system   *System
	resolver Resolver
	ended    bool
}

// System owns an ordered set of fixups.
type System struct {
	fixups []*Fixup
	closed bool
}

// New creates an empty fixup system.
func New() *System {
	return &System{}
}

// Register records a new unresolved fixup and returns it. Resolution is
// deferred until Resolve or ResolveAll is called.
func (s *System) Register(r Resolver) *Fixup {
	f := &Fixup{system: s, resolver: r}
	s.fixups = append(s.fixups, f)
	return f
}

// Len returns the number of registered fixups.
func (s *System) Len() int {
	return len(s.fixups)
}

// Resolve runs the fixup's resolver once. A fixup that already succeeded is
// not run again. A failed attempt leaves the fixup unresolved so it can be
// retried. Resolving a fixup of a closed system panics.
func (f *Fixup) Resolve() bool {
	if f.Resolved() {
		return true
	}
	if f.system.closed {
		panic("fixup: resolve after close")
	}
	if f.resolver.Fix() {
		f.flags |= FlagResolved
		return true
	}
	return false
}

// Resolved reports whether the fixup has been resolved.
func (f *Fixup) Resolved() bool {
	return f.flags&FlagResolved != 0
}

// Resolver returns the pending action of the fixup.
func (f *Fixup) Resolver() Resolver {
	return f.resolver
}

// ResolveAll makes a single pass over every unresolved fixup and reports
// whether none remain unresolved afterwards.
func (s *System) ResolveAll() bool {
	for _, f := range s.fixups {
		if f.Resolved() {
			continue
		}
		f.Resolve()
	}
	return s.UnresolvedCount() == 0
}

// UnresolvedCount returns the number of fixups without the resolved flag.
func (s *System) UnresolvedCount() int {
	c := 0
	for _, f := range s.fixups {
		if !f.Resolved() {
			c++
		}
	}
	return c
}

// Unresolved returns the fixups that are still unresolved.
func (s *System) Unresolved() []*Fixup {
	var out []*Fixup
	for _, f := range s.fixups {
		if !f.Resolved() {
			out = append(out, f)
		}
	}
	return out
}

// Close ends every fixup and discards them. Calling Close more than once has
// no further effect.
func (s *System) Close() {
	if s.closed {
		return
	}
	for _, f := range s.fixups {
		if !f.ended {
			f.ended = true
			f.resolver.End()
		}
	}
	s.fixups = nil
	s.closed = true
}
