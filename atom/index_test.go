package atom_test

import (
	"slices"
	"testing"
	"time"

	"github.com/raffaelramalhorosa/atomkit/atom"
)

func keys(f *atom.Feed) []string {
	return slices.Collect(f.Entries().Keys())
}

func titledFeed(t *testing.T, titles ...string) *atom.Feed {
	var entries []atom.Entry
	for _, title := range titles {
		entries = append(entries, mustEntry(t, entryFields(t, "urn:"+title, title, updated)))
	}
	return mustFeed(t, atom.MetadataFields{Authors: []atom.Person{mustPerson(t, "Ann")}}, entries...)
}

func TestSortByTitle(t *testing.T) {
	f := titledFeed(t, "B", "C", "A")

	asc := atom.SortEntries(f, atom.Ascending, atom.ByTitle)
	if got := keys(asc); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected A, B, C, got %v", got)
	}

	desc := atom.SortEntries(f, atom.Descending, atom.ByTitle)
	if got := keys(desc); !slices.Equal(got, []string{"C", "B", "A"}) {
		t.Fatalf("expected C, B, A, got %v", got)
	}
	if desc.Entries().Field() != atom.ByTitle || desc.Entries().Direction() != atom.Descending {
		t.Fatalf("unexpected index settings %s %s", desc.Entries().Field(), desc.Entries().Direction())
	}

	if f.Entries().Field() != atom.ByUpdated {
		t.Fatal("expected sorting to leave the original feed untouched")
	}
}

func TestSortByTitleUsesPlainText(t *testing.T) {
	b := entryFields(t, "urn:b", "", updated)
	b.Title = textPtr(atom.HTMLText("<em>B</em>"))
	a := entryFields(t, "urn:a", "A", updated)
	f := mustFeed(t, atom.MetadataFields{Authors: []atom.Person{mustPerson(t, "Ann")}}, mustEntry(t, b), mustEntry(t, a))

	got := keys(atom.SortEntries(f, atom.Ascending, atom.ByTitle))
	if !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("expected A, B, got %v", got)
	}
}

func TestEqualUpdatedEntriesAreKept(t *testing.T) {
	f := titledFeed(t, "first", "second", "third")

	if f.Entries().Len() != 3 {
		t.Fatalf("expected 3 entries with equal updated keys, got %d", f.Entries().Len())
	}
	var titles []string
	for e := range f.Entries().Entries() {
		title, _ := e.Title()
		titles = append(titles, title.Value())
	}
	if !slices.Equal(titles, []string{"first", "second", "third"}) {
		t.Fatalf("expected insertion order among equal keys, got %v", titles)
	}
}

func TestDefaultIndexIsAscendingByUpdated(t *testing.T) {
	later := mustEntry(t, entryFields(t, "urn:later", "later", updated.Add(time.Hour)))
	earlier := mustEntry(t, entryFields(t, "urn:earlier", "earlier", updated))
	f := mustFeed(t, atom.MetadataFields{Authors: []atom.Person{mustPerson(t, "Ann")}}, later, earlier)

	want := []string{"2024-03-09T10:30:00.000+00:00", "2024-03-09T11:30:00.000+00:00"}
	if got := keys(f); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAddEntry(t *testing.T) {
	f := atom.SortEntries(titledFeed(t, "A", "C"), atom.Ascending, atom.ByTitle)

	g, err := f.AddEntry(mustEntry(t, entryFields(t, "urn:B", "B", updated)))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if got := keys(g); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected B placed by title, got %v", got)
	}
	if f.Entries().Len() != 2 {
		t.Fatalf("expected original feed unchanged, got %d entries", f.Entries().Len())
	}

	dup, err := g.AddEntry(mustEntry(t, entryFields(t, "urn:B2", "B", updated)))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	second := dup.Entries().At(2)
	if id, _ := second.ID(); id.URI() != "urn:B2" {
		t.Fatalf("expected duplicate key placed after the existing one, got %q", id.URI())
	}
}

func TestAddEntryChecksAuthor(t *testing.T) {
	f := mustFeed(t, atom.MetadataFields{})
	if _, err := f.AddEntry(mustEntry(t, entryFields(t, "urn:x", "x", updated))); err == nil {
		t.Fatal("expected MissingAuthor for an entry without any author")
	}
}

func TestSortEmptyFeed(t *testing.T) {
	f := mustFeed(t, atom.MetadataFields{Title: textPtr(atom.PlainText("empty"))})

	got := atom.SortEntries(f, atom.Descending, atom.ByTitle)
	if got != f {
		t.Fatal("expected the same feed back")
	}
	if got.Entries().Len() != 0 {
		t.Fatalf("expected no entries, got %d", got.Entries().Len())
	}
	if atom.SortEntries(nil, atom.Ascending, atom.ByUpdated) != nil {
		t.Fatal("expected nil feed to stay nil")
	}
}
