package atom

import (
	"iter"
	"slices"
	"strings"
)

// List is an immutable ordered collection. The backing array is never
// shared with callers, so reading from a List needs no copy.
type List[T any] struct {
	items []T
}

// ListOf returns a List holding a copy of items.
func ListOf[T any](items ...T) List[T] {
	if len(items) == 0 {
		return List[T]{}
	}
	return List[T]{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l List[T]) Len() int { return len(l.items) }

// At returns the i'th item. It panics if i is out of range.
func (l List[T]) At(i int) T { return l.items[i] }

// All iterates over index/item pairs in order.
func (l List[T]) All() iter.Seq2[int, T] { return slices.All(l.items) }

// Values iterates over the items in order.
func (l List[T]) Values() iter.Seq[T] { return slices.Values(l.items) }

// Attr is a name/value attribute pair. Name is the qualified name as it
// appears on the wire, e.g. "href", "xml:lang" or "xmlns:dc".
type Attr struct {
	Name  string
	Value string
}

// Attrs is an immutable ordered attribute list. Order is kept for
// serialization; it has no semantic meaning.
type Attrs struct {
	List[Attr]
}

// NewAttrs returns an Attrs holding a copy of attrs.
func NewAttrs(attrs ...Attr) Attrs {
	return Attrs{ListOf(attrs...)}
}

// Get returns the value of the first attribute called name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a.items {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether an attribute called name is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// without returns the attributes whose name is not in names.
func without(attrs []Attr, names ...string) []Attr {
	var out []Attr
	for _, attr := range attrs {
		if !slices.Contains(names, attr.Name) {
			out = append(out, attr)
		}
	}
	return out
}

// isLocalAttr reports whether name is allowed on every element: the xml:
// attributes, namespace declarations, and attributes from a foreign
// namespace (any prefixed name).
func isLocalAttr(name string) bool {
	switch {
	case name == "xml:base", name == "xml:lang", name == "xmlns":
		return true
	case strings.HasPrefix(name, "xmlns:"):
		return true
	}
	prefix, _, ok := strings.Cut(name, ":")
	return ok && prefix != "" && prefix != "xml"
}
