package document

import "strings"

// Set is an unordered collection of tags. Duplicates collapse on
// construction and blank entries are dropped. Iteration order is the order
// of first occurrence.
type Set []string

// NewSet builds a Set from raw values. The result is never nil.
func NewSet(values ...string) Set {
	out := make(Set, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Contains reports whether value is a member of the set.
func (s Set) Contains(value string) bool {
	for _, v := range s {
		if v == value {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same members, ignoring order.
func (s Set) Equal(other Set) bool {
	a, b := NewSet(s...), NewSet(other...)
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

// Strings returns a copy of the members as a plain, non-nil slice.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// List is an ordered collection of drive identifiers. Duplicates are kept.
type List []string

// Contains reports whether id appears in the list.
func (l List) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Append returns a new list with id appended.
func (l List) Append(id string) List {
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, id)
}

// Without returns a new list with every occurrence of id removed.
func (l List) Without(id string) List {
	out := make(List, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Strings returns a copy of the identifiers as a plain, non-nil slice.
func (l List) Strings() []string {
	out := make([]string, len(l))
	copy(out, l)
	return out
}
