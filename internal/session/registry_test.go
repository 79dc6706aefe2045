package session

import (
	"testing"

	"burrow/internal/errors"
)

func TestRegistrySaveAndLoad(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	s := rootedSession(t, e, "foo", 3)
	if err := s.IndexForward(2); err != nil {
		t.Fatal(err)
	}

	saved, err := r.Save(s, "work")
	if err != nil || !saved {
		t.Fatalf("Save failed: saved=%v err=%v", saved, err)
	}
	if s.Name() != "work" {
		t.Errorf("expected session stamped with name, got %q", s.Name())
	}

	loaded, err := r.Load("work")
	if err != nil {
		t.Fatal(err)
	}
	if loaded != s {
		t.Error("expected Load to return the same session, not a clone")
	}
	// Loading does not reset browsing state.
	if idx, _ := loaded.CurrentIndex(); idx != 2 {
		t.Errorf("expected index preserved across load, got %d", idx)
	}
}

func TestRegistrySaveTwiceIsNoOp(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	s := rootedSession(t, e, "foo", 1)

	if _, err := r.Save(s, "first"); err != nil {
		t.Fatal(err)
	}
	saved, err := r.Save(s, "second")
	if err != nil {
		t.Fatalf("second save must not fail, got %v", err)
	}
	if saved {
		t.Error("second save must be a no-op")
	}
	if s.Name() != "first" {
		t.Errorf("expected name to remain first, got %q", s.Name())
	}
	if _, err := r.Load("second"); !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("expected second name unused, got %v", err)
	}
}

func TestRegistryNameCollision(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	a := rootedSession(t, e, "foo", 1)
	b := rootedSession(t, e, "bar", 1)

	if _, err := r.Save(a, "dup"); err != nil {
		t.Fatal(err)
	}
	_, err := r.Save(b, "dup")
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if b.Name() != "" {
		t.Errorf("expected colliding session to stay unnamed, got %q", b.Name())
	}

	// The caller re-prompts and retries with a fresh name.
	if saved, err := r.Save(b, "dup2"); err != nil || !saved {
		t.Fatalf("retry failed: saved=%v err=%v", saved, err)
	}
}

func TestRegistryEmptyName(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	s := rootedSession(t, e, "foo", 1)

	if _, err := r.Save(s, ""); !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := r.Save(rootedSession(t, e, name, 1), name); err != nil {
			t.Fatal(err)
		}
	}
	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestRegistryRecentSlot(t *testing.T) {
	e := testEngine(5)
	r := NewRegistry()
	if r.Recent() != nil {
		t.Error("expected empty recent slot")
	}

	a := rootedSession(t, e, "foo", 1)
	b := rootedSession(t, e, "bar", 1)
	r.SetRecent(a)
	r.SetRecent(b)
	if r.Recent() != b {
		t.Error("expected the most recent session in the slot")
	}
}
