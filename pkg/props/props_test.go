package props

import (
	"errors"
	"testing"
)

func TestAddAndGet(t *testing.T) {
	s := NewSet()

	weight, err := Add(s, "v:weight", float32(1))
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !weight.Valid() {
		t.Fatal("expected valid accessor from Add")
	}
	if weight.Name() != "v:weight" {
		t.Errorf("Name() = %q, want %q", weight.Name(), "v:weight")
	}

	again, err := Get[float32](s, "v:weight")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !again.Valid() {
		t.Fatal("expected valid accessor from Get")
	}
}

func TestAddDuplicateName(t *testing.T) {
	s := NewSet()
	if _, err := Add(s, "v:flag", false); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	// A second registration fails even with a different element type.
	_, err := Add(s, "v:flag", 0)
	if !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestGetErrors(t *testing.T) {
	s := NewSet()
	if _, err := Add(s, "v:weight", float32(0)); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if _, err := Get[float32](s, "v:missing"); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing, got %v", err)
	}
	if _, err := Get[int](s, "v:weight"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestGetOrAdd(t *testing.T) {
	s := NewSet()
	s.Push()

	first, err := GetOrAdd(s, "v:id", -1)
	if err != nil {
		t.Fatalf("GetOrAdd() error: %v", err)
	}
	first.SetAt(0, 42)

	second, err := GetOrAdd(s, "v:id", -1)
	if err != nil {
		t.Fatalf("GetOrAdd() error: %v", err)
	}
	if got := second.At(0); got != 42 {
		t.Errorf("expected existing array to be reused, got %d", got)
	}

	if _, err := GetOrAdd(s, "v:id", false); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestDefaultsFillExistingAndNewSlots(t *testing.T) {
	s := NewSet()
	s.Push()
	s.Push()

	// Added after two pushes: existing slots take the default.
	mark, err := Add(s, "v:mark", 7)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if got := mark.At(i); got != 7 {
			t.Errorf("slot %d = %d, want default 7", i, got)
		}
	}

	// Growth after registration also takes the default.
	s.Push()
	if got := mark.At(2); got != 7 {
		t.Errorf("pushed slot = %d, want default 7", got)
	}
}

func TestArraysStayInLockstep(t *testing.T) {
	s := NewSet()
	a, err := Add(s, "v:a", 0)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	b, err := Add(s, "v:b", "")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	for i := 0; i < 5; i++ {
		s.Push()
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	if len(a.Data()) != 5 || len(b.Data()) != 5 {
		t.Fatalf("array lengths = %d, %d, want 5, 5", len(a.Data()), len(b.Data()))
	}

	s.Resize(2)
	if len(a.Data()) != 2 || len(b.Data()) != 2 {
		t.Errorf("after shrink lengths = %d, %d, want 2, 2", len(a.Data()), len(b.Data()))
	}

	s.Resize(4)
	if len(a.Data()) != 4 || len(b.Data()) != 4 {
		t.Errorf("after grow lengths = %d, %d, want 4, 4", len(a.Data()), len(b.Data()))
	}
}

func TestSwapAndCopySlot(t *testing.T) {
	s := NewSet()
	id, err := Add(s, "v:id", 0)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	tag, err := Add(s, "v:tag", "")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	s.Resize(3)
	for i := 0; i < 3; i++ {
		id.SetAt(i, i)
	}
	tag.SetAt(0, "first")
	tag.SetAt(2, "last")

	s.Swap(0, 2)
	if id.At(0) != 2 || id.At(2) != 0 {
		t.Errorf("after Swap ids = %v, want [2 1 0]", id.Data())
	}
	if tag.At(0) != "last" || tag.At(2) != "first" {
		t.Errorf("after Swap tags = %v", tag.Data())
	}

	s.CopySlot(0, 1)
	if id.At(1) != 2 || tag.At(1) != "last" {
		t.Errorf("after CopySlot slot 1 = (%d, %q), want (2, %q)", id.At(1), tag.At(1), "last")
	}
}

func TestRemove(t *testing.T) {
	s := NewSet()
	if _, err := Add(s, "v:tmp", 0); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := Add(s, "v:keep", 0); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if !s.Remove("v:tmp") {
		t.Error("expected Remove to report true for existing property")
	}
	if s.Remove("v:tmp") {
		t.Error("expected Remove to report false for missing property")
	}
	if s.Exists("v:tmp") {
		t.Error("expected property to be gone after Remove")
	}
	got := s.Names()
	if len(got) != 1 || got[0] != "v:keep" {
		t.Errorf("Names() = %v, want [v:keep]", got)
	}
}

func TestNamesOrder(t *testing.T) {
	s := NewSet()
	names := []string{"v:point", "v:normal", "v:color", "v:deleted"}
	for _, n := range names {
		if _, err := Add(s, n, 0.0); err != nil {
			t.Fatalf("Add(%q) error: %v", n, err)
		}
	}
	got := s.Names()
	if len(got) != len(names) {
		t.Fatalf("Names() returned %d entries, want %d", len(got), len(names))
	}
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], names[i])
		}
	}
}

func TestStructProperties(t *testing.T) {
	type conn struct {
		next, prev int
	}
	s := NewSet()
	c, err := Add(s, "h:connectivity", conn{next: -1, prev: -1})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	s.Push()
	if got := c.At(0); got.next != -1 || got.prev != -1 {
		t.Errorf("default slot = %+v, want {-1 -1}", got)
	}
	c.SetAt(0, conn{next: 3, prev: 8})
	if got := c.At(0); got.next != 3 || got.prev != 8 {
		t.Errorf("slot = %+v, want {3 8}", got)
	}
}
