package atom

import "strings"

// Category tags a feed or entry. Term is required; scheme and label are
// optional.
type Category struct {
	attrs Attrs
}

// NewCategory builds a category from its attributes.
func NewCategory(attrs ...Attr) (Category, error) {
	c := Category{attrs: NewAttrs(attrs...)}
	if !c.attrs.Has("term") {
		return Category{}, violation("category", MissingTerm)
	}
	return c, nil
}

// Term returns the term attribute, the category itself.
func (c Category) Term() string {
	v, _ := c.attrs.Get("term")
	return v
}

// Scheme returns the scheme attribute, the vocabulary the term belongs to.
func (c Category) Scheme() string {
	v, _ := c.attrs.Get("scheme")
	return v
}

// Label returns the human-readable label.
func (c Category) Label() string {
	v, _ := c.attrs.Get("label")
	return v
}

// Attrs returns every attribute in document order.
func (c Category) Attrs() Attrs { return c.attrs }

// Link is a reference from a feed or entry to a web resource. The named
// attributes are held in fields; xml:*, namespace declarations and
// foreign-namespace attributes remain only in the ordered list.
type Link struct {
	href     string
	rel      string
	typ      string
	hreflang string
	title    string
	length   string
	attrs    Attrs
}

// NewLink builds a link from its attributes. href is required. Besides
// href, rel, type, hreflang, title and length, a link accepts xml:base,
// xml:lang, namespace declarations and any namespace-prefixed attribute
// (thr:count, for example), which are kept as extension attributes. An
// unprefixed attribute outside that list is rejected with
// UnsupportedAttribute.
func NewLink(attrs ...Attr) (Link, error) {
	l := Link{attrs: NewAttrs(attrs...)}
	hasHref := false
	for _, attr := range attrs {
		switch attr.Name {
		case "href":
			l.href, hasHref = attr.Value, true
		case "rel":
			l.rel = attr.Value
		case "type":
			l.typ = attr.Value
		case "hreflang":
			l.hreflang = attr.Value
		case "title":
			l.title = attr.Value
		case "length":
			l.length = attr.Value
		default:
			if !isLocalAttr(attr.Name) {
				return Link{}, unsupported("link", attr.Name)
			}
		}
	}
	if !hasHref {
		return Link{}, violation("link", MissingHref)
	}
	return l, nil
}

// Href, Rel, Type, HrefLang, Title and Length return the link attribute of
// the same name, or "" when it is absent. Attrs returns all of them in
// document order.
func (l Link) Href() string     { return l.href }
func (l Link) Rel() string      { return l.rel }
func (l Link) Type() string     { return l.typ }
func (l Link) HrefLang() string { return l.hreflang }
func (l Link) Title() string    { return l.title }
func (l Link) Length() string   { return l.length }
func (l Link) Attrs() Attrs     { return l.attrs }

// Relation returns rel, defaulting to "alternate" as the format does.
func (l Link) Relation() string {
	if l.rel == "" {
		return "alternate"
	}
	return l.rel
}

// Generator identifies the software that produced a feed.
type Generator struct {
	text  string
	attrs Attrs
}

// NewGenerator returns a generator; uri and version are optional
// attributes.
func NewGenerator(text string, attrs ...Attr) Generator {
	return Generator{text: text, attrs: NewAttrs(attrs...)}
}

// Text returns the human-readable name of the generator.
func (g Generator) Text() string { return g.text }

// Attrs returns every attribute in document order.
func (g Generator) Attrs() Attrs { return g.attrs }

// URI returns the uri attribute.
func (g Generator) URI() string {
	v, _ := g.attrs.Get("uri")
	return v
}

// Version returns the version attribute.
func (g Generator) Version() string {
	v, _ := g.attrs.Get("version")
	return v
}

// uriConstruct is the shape shared by id, icon and logo.
type uriConstruct struct {
	uri   string
	attrs Attrs
}

func newURIConstruct(element, uri string, attrs []Attr) (uriConstruct, error) {
	if strings.TrimSpace(uri) == "" {
		return uriConstruct{}, violation(element, MissingURI)
	}
	return uriConstruct{uri: uri, attrs: NewAttrs(attrs...)}, nil
}

// URI returns the element content.
func (u uriConstruct) URI() string { return u.uri }

// Attrs returns every attribute in document order.
func (u uriConstruct) Attrs() Attrs { return u.attrs }

// ID is the permanent, universally unique identifier of a feed or entry.
type ID struct{ uriConstruct }

// NewID returns an identifier. Only xml:base, xml:lang, namespace
// declarations and foreign-namespace attributes may accompany it.
func NewID(uri string, attrs ...Attr) (ID, error) {
	for _, attr := range attrs {
		if !isLocalAttr(attr.Name) {
			return ID{}, unsupported("id", attr.Name)
		}
	}
	u, err := newURIConstruct("id", uri, attrs)
	if err != nil {
		return ID{}, err
	}
	return ID{u}, nil
}

// Icon is a small image that identifies a feed.
type Icon struct{ uriConstruct }

// NewIcon returns an icon referencing uri, which must not be blank.
func NewIcon(uri string, attrs ...Attr) (Icon, error) {
	u, err := newURIConstruct("icon", uri, attrs)
	if err != nil {
		return Icon{}, err
	}
	return Icon{u}, nil
}

// Logo is a larger image that identifies a feed.
type Logo struct{ uriConstruct }

// NewLogo returns a logo referencing uri, which must not be blank.
func NewLogo(uri string, attrs ...Attr) (Logo, error) {
	u, err := newURIConstruct("logo", uri, attrs)
	if err != nil {
		return Logo{}, err
	}
	return Logo{u}, nil
}
