package atom

import (
	"slices"
	"time"
)

// MetadataFields holds the metadata bundle shared by Feed and Source. Nil
// pointers mean the element is absent.
type MetadataFields struct {
	ID           *ID
	Title        *Text
	Subtitle     *Text
	Updated      *time.Time
	Rights       *Text
	Generator    *Generator
	Icon         *Icon
	Logo         *Logo
	Authors      []Person
	Contributors []Person
	Categories   []Category
	Links        []Link
	Extensions   []Extension
	Attrs        []Attr
}

// Metadata is the immutable metadata bundle embedded by Feed and Source.
type Metadata struct {
	id           *ID
	title        *Text
	subtitle     *Text
	updated      *time.Time
	rights       *Text
	generator    *Generator
	icon         *Icon
	logo         *Logo
	authors      List[Person]
	contributors List[Person]
	categories   List[Category]
	links        List[Link]
	extensions   List[Extension]
	attrs        Attrs
}

// NewMetadata returns the bundle described by f. No field is required at
// this level.
func NewMetadata(f MetadataFields) Metadata {
	m := Metadata{
		id:           clonePtr(f.ID),
		title:        clonePtr(f.Title),
		subtitle:     clonePtr(f.Subtitle),
		rights:       clonePtr(f.Rights),
		generator:    clonePtr(f.Generator),
		icon:         clonePtr(f.Icon),
		logo:         clonePtr(f.Logo),
		authors:      ListOf(f.Authors...),
		contributors: ListOf(f.Contributors...),
		categories:   ListOf(f.Categories...),
		links:        ListOf(f.Links...),
		extensions:   ListOf(f.Extensions...),
		attrs:        NewAttrs(f.Attrs...),
	}
	if f.Updated != nil {
		t := normalizeTime(*f.Updated)
		m.updated = &t
	}
	return m
}

// Fields returns the parts of m, for rebuilding a changed copy.
func (m Metadata) Fields() MetadataFields {
	return MetadataFields{
		ID:           clonePtr(m.id),
		Title:        clonePtr(m.title),
		Subtitle:     clonePtr(m.subtitle),
		Updated:      clonePtr(m.updated),
		Rights:       clonePtr(m.rights),
		Generator:    clonePtr(m.generator),
		Icon:         clonePtr(m.icon),
		Logo:         clonePtr(m.logo),
		Authors:      slices.Clone(m.authors.items),
		Contributors: slices.Clone(m.contributors.items),
		Categories:   slices.Clone(m.categories.items),
		Links:        slices.Clone(m.links.items),
		Extensions:   slices.Clone(m.extensions.items),
		Attrs:        slices.Clone(m.attrs.items),
	}
}

// Optional elements report whether they are present. List-valued fields
// are empty when absent.
func (m Metadata) ID() (ID, bool)               { return deref(m.id) }
func (m Metadata) Title() (Text, bool)          { return deref(m.title) }
func (m Metadata) Subtitle() (Text, bool)       { return deref(m.subtitle) }
func (m Metadata) Updated() (time.Time, bool)   { return deref(m.updated) }
func (m Metadata) Rights() (Text, bool)         { return deref(m.rights) }
func (m Metadata) Generator() (Generator, bool) { return deref(m.generator) }
func (m Metadata) Icon() (Icon, bool)           { return deref(m.icon) }
func (m Metadata) Logo() (Logo, bool)           { return deref(m.logo) }
func (m Metadata) Authors() List[Person]        { return m.authors }
func (m Metadata) Contributors() List[Person]   { return m.contributors }
func (m Metadata) Categories() List[Category]   { return m.categories }
func (m Metadata) Links() List[Link]            { return m.links }
func (m Metadata) Extensions() List[Extension]  { return m.extensions }
func (m Metadata) Attrs() Attrs                 { return m.attrs }

// Source carries the metadata of the feed an entry was copied from.
type Source struct {
	Metadata
}

// NewSource wraps m as the source of an entry.
func NewSource(m Metadata) Source {
	return Source{Metadata: m}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
