package atom

import (
	"iter"
	"slices"
	"sort"
	"strings"
	"time"
)

// SortField selects the entry field the index is keyed on.
type SortField int

const (
	ByUpdated SortField = iota
	ByTitle
)

func (f SortField) String() string {
	if f == ByTitle {
		return "title"
	}
	return "updated"
}

// Direction is the order of an index.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

type indexItem struct {
	key   string
	entry Entry
}

// EntryIndex is the ordered collection of a feed's entries, keyed by the
// text of one entry field. Entries with equal keys are all kept, in
// insertion order.
type EntryIndex struct {
	field SortField
	dir   Direction
	items []indexItem
}

// Len returns the number of entries; Field and Direction describe the
// current ordering.
func (ix EntryIndex) Len() int             { return len(ix.items) }
func (ix EntryIndex) Field() SortField     { return ix.field }
func (ix EntryIndex) Direction() Direction { return ix.dir }

// At returns the i'th entry in index order.
func (ix EntryIndex) At(i int) Entry { return ix.items[i].entry }

// Keys iterates over the sort keys in index order.
func (ix EntryIndex) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, item := range ix.items {
			if !yield(item.key) {
				return
			}
		}
	}
}

// Entries iterates over the entries in index order.
func (ix EntryIndex) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, item := range ix.items {
			if !yield(item.entry) {
				return
			}
		}
	}
}

// All iterates over key/entry pairs in index order.
func (ix EntryIndex) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, item := range ix.items {
			if !yield(item.key, item.entry) {
				return
			}
		}
	}
}

func (ix EntryIndex) compare(a, b string) int {
	if ix.dir == Descending {
		return strings.Compare(b, a)
	}
	return strings.Compare(a, b)
}

// with returns a copy of ix holding e after every entry with an equal key.
func (ix EntryIndex) with(e Entry) EntryIndex {
	key := sortKey(e, ix.field)
	pos := sort.Search(len(ix.items), func(i int) bool {
		return ix.compare(ix.items[i].key, key) > 0
	})
	items := make([]indexItem, 0, len(ix.items)+1)
	items = append(items, ix.items[:pos]...)
	items = append(items, indexItem{key: key, entry: e})
	items = append(items, ix.items[pos:]...)
	return EntryIndex{field: ix.field, dir: ix.dir, items: items}
}

func buildIndex(field SortField, dir Direction, entries []Entry) EntryIndex {
	ix := EntryIndex{field: field, dir: dir}
	if len(entries) == 0 {
		return ix
	}
	ix.items = make([]indexItem, len(entries))
	for i, e := range entries {
		ix.items[i] = indexItem{key: sortKey(e, field), entry: e}
	}
	slices.SortStableFunc(ix.items, func(a, b indexItem) int {
		return ix.compare(a.key, b.key)
	})
	return ix
}

// sortKey returns the text e is indexed under. Updated keys are rendered in
// UTC so that text order is time order.
func sortKey(e Entry, field SortField) string {
	switch field {
	case ByTitle:
		if t, ok := e.Title(); ok {
			return t.PlainText()
		}
		return ""
	default:
		if t, ok := e.Updated(); ok {
			return FormatDateTime(t, time.UTC)
		}
		return ""
	}
}

// SortEntries returns a feed whose index is rebuilt on field in direction
// dir. Entries with equal keys keep their current relative order. A feed
// without entries is returned as is.
func SortEntries(f *Feed, dir Direction, field SortField) *Feed {
	if f == nil || f.entries.Len() == 0 {
		return f
	}
	entries := slices.Collect(f.entries.Entries())
	return &Feed{Metadata: f.Metadata, entries: buildIndex(field, dir, entries)}
}
