package store_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/raffaelramalhorosa/atomkit/atom"
	"github.com/raffaelramalhorosa/atomkit/internal/store"
)

func setup() (*store.Documents, *store.Memory) {
	m := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return store.NewDocuments(m, logger), m
}

func sampleFeed(t *testing.T) *atom.Feed {
	t.Helper()
	id, _ := atom.NewID("urn:entry:1")
	title := atom.PlainText("Hello")
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e, err := atom.NewEntry(atom.EntryFields{ID: &id, Title: &title, Updated: &updated})
	if err != nil {
		t.Fatal(err)
	}
	author, _ := atom.NewPerson(atom.PersonFields{Name: "Ann"})
	feedTitle := atom.PlainText("Go Blog")
	f, err := atom.NewFeed(atom.NewMetadata(atom.MetadataFields{Title: &feedTitle, Authors: []atom.Person{author}}), e)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	docs, _ := setup()
	want := sampleFeed(t)

	if err := docs.Save(ctx, "/blogs/go.atom", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := docs.Load(ctx, "blogs/./go.atom")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatal("expected loaded feed to equal the saved one")
	}

	paths, err := docs.Paths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(paths, []string{"blogs/go.atom"}) {
		t.Fatalf("expected cleaned path, got %v", paths)
	}
}

func TestRemoveDocument(t *testing.T) {
	ctx := context.Background()
	docs, _ := setup()
	docs.Save(ctx, "a.atom", sampleFeed(t))

	if err := docs.Remove(ctx, "a.atom"); err != nil {
		t.Fatalf("expected removal to succeed, got %v", err)
	}
	if err := docs.Remove(ctx, "a.atom"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := docs.Load(ctx, "a.atom"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	ctx := context.Background()
	docs, m := setup()
	m.Put(ctx, "bad.atom", []byte("<feed xmlns=\"http://www.w3.org/2005/Atom\"><title>"))

	_, err := docs.Load(ctx, "bad.atom")
	var se *atom.StreamError
	if !errors.As(err, &se) {
		t.Fatalf("expected StreamError, got %v", err)
	}
}

func TestEmptyPathRejected(t *testing.T) {
	ctx := context.Background()
	docs, _ := setup()

	for _, p := range []string{"", "/", " ", ".."} {
		if err := docs.Save(ctx, p, sampleFeed(t)); err == nil {
			t.Fatalf("expected error saving to %q", p)
		}
	}
}
