package fixup

import "testing"

// countingResolver succeeds once attempts reaches succeedAt (0 never succeeds).
type countingResolver struct {
	attempts  int
	succeedAt int
	ends      int
}

func (r *countingResolver) Fix() bool {
	r.attempts++
	return r.succeedAt != 0 && r.attempts >= r.succeedAt
}

func (r *countingResolver) End() {
	r.ends++
}

func TestRegisterIsDeferred(t *testing.T) {
	s := New()
	r := &countingResolver{succeedAt: 1}
	f := s.Register(r)

	if r.attempts != 0 {
		t.Errorf("Register should not attempt the fix, got %d attempts", r.attempts)
	}
	if f.Resolved() {
		t.Error("new fixup should be unresolved")
	}
	if f.Resolver() != r {
		t.Error("fixup should hold its resolver")
	}
	if s.UnresolvedCount() != 1 {
		t.Errorf("UnresolvedCount() = %d, want 1", s.UnresolvedCount())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := New()
	r := &countingResolver{succeedAt: 1}
	f := s.Register(r)

	if !f.Resolve() {
		t.Fatal("Resolve() = false, want true")
	}
	if !f.Resolve() {
		t.Fatal("second Resolve() = false, want true")
	}
	if r.attempts != 1 {
		t.Errorf("resolver ran %d times, want 1", r.attempts)
	}
}

func TestResolveRetriesAfterFailure(t *testing.T) {
	s := New()
	r := &countingResolver{succeedAt: 2}
	f := s.Register(r)

	if f.Resolve() {
		t.Fatal("first Resolve() should fail")
	}
	if f.Resolved() {
		t.Fatal("failed fixup must stay unresolved")
	}
	if !f.Resolve() {
		t.Fatal("retry should succeed")
	}
}

func TestResolveAllSinglePass(t *testing.T) {
	s := New()
	ok := &countingResolver{succeedAt: 1}
	late := &countingResolver{succeedAt: 2}
	s.Register(ok)
	s.Register(late)

	if s.ResolveAll() {
		t.Error("ResolveAll() = true, want false while a fixup needs a second attempt")
	}
	if late.attempts != 1 {
		t.Errorf("ResolveAll should attempt once per pass, got %d", late.attempts)
	}
	if got := s.UnresolvedCount(); got != 1 {
		t.Errorf("UnresolvedCount() = %d, want 1", got)
	}
	if got := len(s.Unresolved()); got != 1 {
		t.Errorf("len(Unresolved()) = %d, want 1", got)
	}

	if !s.ResolveAll() {
		t.Error("second ResolveAll() = false, want true")
	}
	if ok.attempts != 1 {
		t.Errorf("resolved fixup was retried: %d attempts", ok.attempts)
	}
}

func TestResolveAllEmpty(t *testing.T) {
	if !New().ResolveAll() {
		t.Error("an empty system has nothing unresolved")
	}
}

func TestCloseEndsEachFixupOnce(t *testing.T) {
	s := New()
	resolvers := []*countingResolver{{succeedAt: 1}, {}, {succeedAt: 1}}
	for _, r := range resolvers {
		s.Register(r)
	}
	s.ResolveAll()

	s.Close()
	s.Close()

	for i, r := range resolvers {
		if r.ends != 1 {
			t.Errorf("resolver %d ended %d times, want 1", i, r.ends)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", s.Len())
	}
}

func TestResolveAfterClosePanics(t *testing.T) {
	s := New()
	r := &countingResolver{}
	f := s.Register(r)
	s.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
		if r.attempts != 0 {
			t.Errorf("resolver ran %d times after its system closed", r.attempts)
		}
	}()
	f.Resolve()
}
