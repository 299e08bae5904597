// Package convert turns feeds that gofeed parsed from RSS or JSON Feed into
// validated Atom feeds.
package convert

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/raffaelramalhorosa/atomkit/atom"
)

// FromGofeed builds an Atom feed from src. Dates missing from src fall back
// to now. Items without a GUID get a name-based urn:uuid id derived from
// their link, so converting the same document twice gives the same ids.
func FromGofeed(src *gofeed.Feed, now time.Time) (*atom.Feed, error) {
	title := strings.TrimSpace(src.Title)
	m := atom.MetadataFields{
		Title:      ptr(atom.PlainText(title)),
		Updated:    ptr(firstTime(now, src.UpdatedParsed, src.PublishedParsed)),
		Authors:    persons(src.Authors),
		Categories: categories(src.Categories),
	}
	if title == "" {
		m.Title = ptr(atom.PlainText("Untitled feed"))
	}

	feedID := uuid.New().URN()
	if link := firstString(src.FeedLink, src.Link); link != "" {
		feedID = iri(link)
	}
	id, err := atom.NewID(feedID)
	if err != nil {
		return nil, err
	}
	m.ID = &id

	if src.Description != "" {
		m.Subtitle = ptr(atom.HTMLText(src.Description))
	}
	if src.Copyright != "" {
		m.Rights = ptr(atom.PlainText(src.Copyright))
	}
	if src.Generator != "" {
		m.Generator = ptr(atom.NewGenerator(src.Generator))
	}
	if src.Image != nil && src.Image.URL != "" {
		if logo, err := atom.NewLogo(src.Image.URL); err == nil {
			m.Logo = &logo
		}
	}
	if src.Link != "" {
		m.Links = append(m.Links, link(src.Link, "alternate"))
	}
	if src.FeedLink != "" {
		m.Links = append(m.Links, link(src.FeedLink, "self"))
	}

	entries := make([]atom.Entry, 0, len(src.Items))
	needAuthor := false
	for _, item := range src.Items {
		e, err := entry(item, *m.Updated)
		if err != nil {
			return nil, err
		}
		if e.Authors().Len() == 0 {
			needAuthor = true
		}
		entries = append(entries, e)
	}
	if needAuthor && len(m.Authors) == 0 {
		name := title
		if name == "" {
			name = "Unknown author"
		}
		author, _ := atom.NewPerson(atom.PersonFields{Name: name})
		m.Authors = []atom.Person{author}
	}

	return atom.NewFeed(atom.NewMetadata(m), entries...)
}

func entry(item *gofeed.Item, fallback time.Time) (atom.Entry, error) {
	var itemID string
	switch {
	case item.GUID != "":
		itemID = iri(item.GUID)
	case item.Link != "":
		itemID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(item.Link)).URN()
	default:
		itemID = uuid.New().URN()
	}
	id, err := atom.NewID(itemID)
	if err != nil {
		return atom.Entry{}, err
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}
	f := atom.EntryFields{
		ID:         &id,
		Title:      ptr(atom.PlainText(title)),
		Updated:    ptr(firstTime(fallback, item.UpdatedParsed, item.PublishedParsed)),
		Published:  item.PublishedParsed,
		Authors:    persons(item.Authors),
		Categories: categories(item.Categories),
	}
	if item.Description != "" {
		f.Summary = ptr(atom.HTMLText(item.Description))
	}
	if item.Content != "" {
		f.Content = ptr(atom.InlineContent("html", item.Content))
	}
	if item.Link != "" {
		f.Links = append(f.Links, link(item.Link, "alternate"))
	}
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		attrs := []atom.Attr{{Name: "href", Value: enc.URL}, {Name: "rel", Value: "enclosure"}}
		if enc.Type != "" {
			attrs = append(attrs, atom.Attr{Name: "type", Value: enc.Type})
		}
		if enc.Length != "" && enc.Length != "0" {
			attrs = append(attrs, atom.Attr{Name: "length", Value: enc.Length})
		}
		l, err := atom.NewLink(attrs...)
		if err != nil {
			return atom.Entry{}, err
		}
		f.Links = append(f.Links, l)
	}
	return atom.NewEntry(f)
}

func link(href, rel string) atom.Link {
	l, _ := atom.NewLink(atom.Attr{Name: "href", Value: href}, atom.Attr{Name: "rel", Value: rel})
	return l
}

// persons drops entries without a name or email; an email stands in for a
// missing name.
func persons(src []*gofeed.Person) []atom.Person {
	var out []atom.Person
	for _, p := range src {
		if p == nil {
			continue
		}
		name := firstString(strings.TrimSpace(p.Name), strings.TrimSpace(p.Email))
		if person, err := atom.NewPerson(atom.PersonFields{Name: name, Email: p.Email}); err == nil {
			out = append(out, person)
		}
	}
	return out
}

func categories(terms []string) []atom.Category {
	var out []atom.Category
	for _, term := range terms {
		if term = strings.TrimSpace(term); term == "" {
			continue
		}
		c, _ := atom.NewCategory(atom.Attr{Name: "term", Value: term})
		out = append(out, c)
	}
	return out
}

// iri returns s if it is an absolute IRI and a name-based urn:uuid derived
// from it otherwise.
func iri(s string) string {
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		return s
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s)).URN()
}

func firstTime(fallback time.Time, times ...*time.Time) time.Time {
	for _, t := range times {
		if t != nil && !t.IsZero() {
			return *t
		}
	}
	return fallback
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }
