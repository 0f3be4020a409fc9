// Package props implements named attribute arrays for mesh elements.
//
// A Set owns every array belonging to one element kind (vertices, halfedges,
// edges or faces) and keeps them all at the same length, so a lookup through
// a live element handle can never run past the end of an array. Inside the
// Set the arrays are type-erased; callers hold strongly typed Property[T]
// accessors obtained from Add or Get. The element type of an array is fixed
// when it is created and checked again on every lookup by name.
package props

import (
	"errors"
	"fmt"
)

var (
	// ErrExists is returned by Add when the name is already registered.
	ErrExists = errors.New("property already exists")
	// ErrMissing is returned by Get when no property has the given name.
	ErrMissing = errors.New("no such property")
	// ErrTypeMismatch is returned by Get when the property exists but was
	// created with a different element type than the one requested.
	ErrTypeMismatch = errors.New("property type mismatch")
)

// Array is the type-erased view of one attribute array. The owning Set
// keeps every Array at the same length as its element count.
type Array interface {
	// Name returns the property name, e.g. "v:point".
	Name() string
	// Len returns the number of slots.
	Len() int
	// Push appends one slot holding the default value.
	Push()
	// Resize grows or truncates the array to n slots. New slots hold the
	// default value.
	Resize(n int)
	// Swap exchanges the values stored at slots i and j.
	Swap(i, j int)
	// CopySlot overwrites the value at dst with the value at src.
	CopySlot(src, dst int)
}

type array[T any] struct {
	name string
	def  T
	data []T
}

var _ Array = (*array[int])(nil)

func (a *array[T]) Name() string { return a.name }
func (a *array[T]) Len() int     { return len(a.data) }
func (a *array[T]) Push()        { a.data = append(a.data, a.def) }

func (a *array[T]) Resize(n int) {
	for len(a.data) < n {
		a.data = append(a.data, a.def)
	}
	if len(a.data) > n {
		a.data = a.data[:n]
	}
}

func (a *array[T]) Swap(i, j int) {
	a.data[i], a.data[j] = a.data[j], a.data[i]
}

func (a *array[T]) CopySlot(src, dst int) {
	a.data[dst] = a.data[src]
}

// Set owns all properties of one element kind. Every array in the set has
// exactly Len slots at all times. The zero value is not usable; call NewSet.
type Set struct {
	byName map[string]Array
	order  []string // registration order, for stable Names
	n      int
}

// NewSet returns an empty property set with element count zero.
func NewSet() *Set {
	return &Set{byName: make(map[string]Array)}
}

// Len returns the element count all arrays are sized to.
func (s *Set) Len() int { return s.n }

// Exists reports whether a property with the given name is registered.
func (s *Set) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the registered property names in registration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Push appends one default-initialized slot to every array and increments
// the element count.
func (s *Set) Push() {
	for _, a := range s.byName {
		a.Push()
	}
	s.n++
}

// Resize sets every array to n slots. Growing fills with each array's
// default value; shrinking discards the tail.
func (s *Set) Resize(n int) {
	if n < 0 {
		n = 0
	}
	for _, a := range s.byName {
		a.Resize(n)
	}
	s.n = n
}

// Swap exchanges the values of elements i and j in every array.
func (s *Set) Swap(i, j int) {
	if i == j {
		return
	}
	for _, a := range s.byName {
		a.Swap(i, j)
	}
}

// CopySlot copies every property value of element src onto element dst.
func (s *Set) CopySlot(src, dst int) {
	if src == dst {
		return
	}
	for _, a := range s.byName {
		a.CopySlot(src, dst)
	}
}

// Remove unregisters the named property and reports whether it existed.
// Accessors previously handed out for it keep their backing array but the
// Set no longer resizes it.
func (s *Set) Remove(name string) bool {
	if _, ok := s.byName[name]; !ok {
		return false
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Add registers a new property holding elements of type T. Existing slots
// and future growth are filled with def. It fails with ErrExists when the
// name is already taken, regardless of type.
func Add[T any](s *Set, name string, def T) (Property[T], error) {
	if s.Exists(name) {
		return Property[T]{}, fmt.Errorf("props: add %q: %w", name, ErrExists)
	}
	a := &array[T]{name: name, def: def}
	a.Resize(s.n)
	s.byName[name] = a
	s.order = append(s.order, name)
	return Property[T]{a: a}, nil
}

// Get returns a typed accessor for an existing property. It fails with
// ErrMissing when the name is unknown and with ErrTypeMismatch when the
// property was created with a different type.
func Get[T any](s *Set, name string) (Property[T], error) {
	raw, ok := s.byName[name]
	if !ok {
		return Property[T]{}, fmt.Errorf("props: get %q: %w", name, ErrMissing)
	}
	a, ok := raw.(*array[T])
	if !ok {
		return Property[T]{}, fmt.Errorf("props: get %q: stored as %T: %w", name, raw, ErrTypeMismatch)
	}
	return Property[T]{a: a}, nil
}

// GetOrAdd returns the existing property under name or registers a new one
// with the given default. It fails only when the name exists with a
// different type.
func GetOrAdd[T any](s *Set, name string, def T) (Property[T], error) {
	if !s.Exists(name) {
		return Add(s, name, def)
	}
	return Get[T](s, name)
}

// Property is a strongly typed accessor bound to one array of a Set.
// The zero value is invalid; check Valid before use when a property is
// optional.
type Property[T any] struct {
	a *array[T]
}

// Valid reports whether the accessor is bound to an array.
func (p Property[T]) Valid() bool { return p.a != nil }

// Name returns the property name the accessor was created under.
func (p Property[T]) Name() string { return p.a.name }

// At returns the value of element i.
func (p Property[T]) At(i int) T { return p.a.data[i] }

// SetAt overwrites the value of element i.
func (p Property[T]) SetAt(i int, v T) { p.a.data[i] = v }

// Data returns the backing slice. It is invalidated by the next resize and
// must not be appended to.
func (p Property[T]) Data() []T { return p.a.data }
