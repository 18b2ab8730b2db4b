// Package enum provides closed label sets with a reverse index built once at init.
package enum

import "fmt"

// Member pairs an enum value with its display label.
type Member[T ~string] struct {
	Value T
	Label string
}

// Set is an immutable closed enumeration with label -> value lookup.
type Set[T ~string] struct {
	members []Member[T]
	byLabel map[string]T
	labels  map[T]string
}

// NewSet builds a Set. Duplicate values or labels are rejected.
func NewSet[T ~string](members ...Member[T]) (*Set[T], error) {
	s := &Set[T]{
		members: make([]Member[T], 0, len(members)),
		byLabel: make(map[string]T, len(members)),
		labels:  make(map[T]string, len(members)),
	}
	for _, m := range members {
		if m.Value == "" {
			return nil, fmt.Errorf("enum value is required (label %q)", m.Label)
		}
		if m.Label == "" {
			return nil, fmt.Errorf("enum label is required (value %q)", m.Value)
		}
		if _, dup := s.labels[m.Value]; dup {
			return nil, fmt.Errorf("duplicate enum value %q", m.Value)
		}
		if _, dup := s.byLabel[m.Label]; dup {
			return nil, fmt.Errorf("duplicate enum label %q", m.Label)
		}
		s.members = append(s.members, m)
		s.byLabel[m.Label] = m.Value
		s.labels[m.Value] = m.Label
	}
	return s, nil
}

// MustSet calls NewSet and panics on error. Intended for package-level vars.
func MustSet[T ~string](members ...Member[T]) *Set[T] {
	s, err := NewSet(members...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup resolves a display label by exact match.
func (s *Set[T]) Lookup(label string) (T, bool) {
	v, ok := s.byLabel[label]
	return v, ok
}

// Label returns the display label of v, or "" for non-members.
func (s *Set[T]) Label(v T) string { return s.labels[v] }

// Contains reports whether v is a member.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.labels[v]
	return ok
}

// Values returns members in declaration order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.members))
	for i, m := range s.members {
		out[i] = m.Value
	}
	return out
}

// Len returns the number of members.
func (s *Set[T]) Len() int { return len(s.members) }
