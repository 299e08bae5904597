package atom

import (
	"slices"
	"time"
)

// EntryFields holds the parts of an entry. Nil pointers mean the element is
// absent.
type EntryFields struct {
	ID           *ID
	Title        *Text
	Updated      *time.Time
	Published    *time.Time
	Content      *Content
	Summary      *Text
	Rights       *Text
	Source       *Source
	Authors      []Person
	Contributors []Person
	Categories   []Category
	Links        []Link
	Extensions   []Extension
	Attrs        []Attr
}

// Entry is a single item of a feed.
type Entry struct {
	id           *ID
	title        *Text
	updated      *time.Time
	published    *time.Time
	content      *Content
	summary      *Text
	rights       *Text
	source       *Source
	authors      List[Person]
	contributors List[Person]
	categories   List[Category]
	links        List[Link]
	extensions   List[Extension]
	attrs        Attrs
}

// NewEntry validates f and returns the entry it describes. id, title and
// updated are required; a summary is required when the content is
// external or is inline media that is neither text nor XML. The author
// rule depends on the enclosing feed and is checked when the entry is
// added to one.
func NewEntry(f EntryFields) (Entry, error) {
	e := Entry{
		id:           clonePtr(f.ID),
		title:        clonePtr(f.Title),
		content:      clonePtr(f.Content),
		summary:      clonePtr(f.Summary),
		rights:       clonePtr(f.Rights),
		source:       clonePtr(f.Source),
		authors:      ListOf(f.Authors...),
		contributors: ListOf(f.Contributors...),
		categories:   ListOf(f.Categories...),
		links:        ListOf(f.Links...),
		extensions:   ListOf(f.Extensions...),
		attrs:        NewAttrs(f.Attrs...),
	}
	if f.Updated != nil {
		t := normalizeTime(*f.Updated)
		e.updated = &t
	}
	if f.Published != nil {
		t := normalizeTime(*f.Published)
		e.published = &t
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) validate() error {
	switch {
	case e.id == nil:
		return violation("entry", MissingID)
	case e.title == nil:
		return violation("entry", MissingTitle)
	case e.updated == nil:
		return violation("entry", MissingUpdated)
	case e.content != nil && e.content.needsSummary() && e.summary == nil:
		return violation("entry", MissingSummary)
	}
	return nil
}

// Fields returns the parts of e, for rebuilding a changed copy.
func (e Entry) Fields() EntryFields {
	return EntryFields{
		ID:           clonePtr(e.id),
		Title:        clonePtr(e.title),
		Updated:      clonePtr(e.updated),
		Published:    clonePtr(e.published),
		Content:      clonePtr(e.content),
		Summary:      clonePtr(e.summary),
		Rights:       clonePtr(e.rights),
		Source:       clonePtr(e.source),
		Authors:      slices.Clone(e.authors.items),
		Contributors: slices.Clone(e.contributors.items),
		Categories:   slices.Clone(e.categories.items),
		Links:        slices.Clone(e.links.items),
		Extensions:   slices.Clone(e.extensions.items),
		Attrs:        slices.Clone(e.attrs.items),
	}
}

// Optional elements report whether they are present. List-valued fields
// are empty when absent.
func (e Entry) ID() (ID, bool)               { return deref(e.id) }
func (e Entry) Title() (Text, bool)          { return deref(e.title) }
func (e Entry) Updated() (time.Time, bool)   { return deref(e.updated) }
func (e Entry) Published() (time.Time, bool) { return deref(e.published) }
func (e Entry) Content() (Content, bool)     { return deref(e.content) }
func (e Entry) Summary() (Text, bool)        { return deref(e.summary) }
func (e Entry) Rights() (Text, bool)         { return deref(e.rights) }
func (e Entry) Source() (Source, bool)       { return deref(e.source) }
func (e Entry) Authors() List[Person]        { return e.authors }
func (e Entry) Contributors() List[Person]   { return e.contributors }
func (e Entry) Categories() List[Category]   { return e.categories }
func (e Entry) Links() List[Link]            { return e.links }
func (e Entry) Extensions() List[Extension]  { return e.extensions }
func (e Entry) Attrs() Attrs                 { return e.attrs }
