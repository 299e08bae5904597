package main

import (
	"time"

	"github.com/raffaelramalhorosa/atomkit/atom"
)

// feedSummary is the JSON shape printed by inspect.
type feedSummary struct {
	ID      string         `json:"id,omitempty"`
	Title   string         `json:"title"`
	Updated *time.Time     `json:"updated,omitempty"`
	Authors []string       `json:"authors,omitempty"`
	Links   []linkSummary  `json:"links,omitempty"`
	Entries []entrySummary `json:"entries"`
}

type linkSummary struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// entrySummary describes one entry. Titles are rendered to plain text.
type entrySummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Updated    time.Time  `json:"updated"`
	Published  *time.Time `json:"published,omitempty"`
	Authors    []string   `json:"authors,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Content    string     `json:"content,omitempty"`
	Extensions int        `json:"extensions,omitempty"`
}

func summarize(f *atom.Feed) feedSummary {
	s := feedSummary{
		Authors: names(f.Authors()),
		Entries: make([]entrySummary, 0, f.Entries().Len()),
	}
	if id, ok := f.ID(); ok {
		s.ID = id.URI()
	}
	if title, ok := f.Title(); ok {
		s.Title = title.PlainText()
	}
	if updated, ok := f.Updated(); ok {
		s.Updated = &updated
	}
	for l := range f.Links().Values() {
		s.Links = append(s.Links, linkSummary{Rel: l.Relation(), Href: l.Href(), Type: l.Type()})
	}

	for e := range f.Entries().Entries() {
		es := entrySummary{
			Authors:    names(e.Authors()),
			Extensions: e.Extensions().Len(),
		}
		id, _ := e.ID()
		es.ID = id.URI()
		title, _ := e.Title()
		es.Title = title.PlainText()
		es.Updated, _ = e.Updated()
		if published, ok := e.Published(); ok {
			es.Published = &published
		}
		for c := range e.Categories().Values() {
			es.Categories = append(es.Categories, c.Term())
		}
		if c, ok := e.Content(); ok {
			es.Content = c.Kind().String()
		}
		s.Entries = append(s.Entries, es)
	}
	return s
}

func names(people atom.List[atom.Person]) []string {
	var out []string
	for p := range people.Values() {
		out = append(out, p.Name())
	}
	return out
}
