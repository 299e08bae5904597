package atom

import "strings"

// ContentKind is the variant of a Content, derived from its attributes.
type ContentKind int

const (
	ContentText ContentKind = iota
	ContentHTML
	ContentXHTML
	ContentExternal
	ContentOther
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentHTML:
		return "html"
	case ContentXHTML:
		return "xhtml"
	case ContentExternal:
		return "external"
	default:
		return "other"
	}
}

// Content is the body of an entry, inline or referenced through src.
type Content struct {
	attrs  Attrs
	inline *string
}

// NewContent returns a content element. inline is nil when the element has
// no inline body, which is the norm when src is set.
func NewContent(attrs []Attr, inline *string) Content {
	c := Content{attrs: NewAttrs(attrs...)}
	if inline != nil {
		s := *inline
		c.inline = &s
	}
	return c
}

// InlineContent is shorthand for a content of the given type holding body.
// An empty typ means text.
func InlineContent(typ, body string) Content {
	var attrs []Attr
	if typ != "" {
		attrs = []Attr{{Name: "type", Value: typ}}
	}
	return NewContent(attrs, &body)
}

// Kind derives the variant: src wins over type; then text (or no type),
// html, xhtml, and anything else.
func (c Content) Kind() ContentKind {
	if c.attrs.Has("src") {
		return ContentExternal
	}
	switch typ, _ := c.attrs.Get("type"); typ {
	case "", "text":
		return ContentText
	case "html":
		return ContentHTML
	case "xhtml":
		return ContentXHTML
	}
	return ContentOther
}

// Type returns the type attribute.
func (c Content) Type() string {
	v, _ := c.attrs.Get("type")
	return v
}

// Src returns the src attribute.
func (c Content) Src() string {
	v, _ := c.attrs.Get("src")
	return v
}

// Inline returns the inline body. For xhtml it is the markup inside the
// wrapping div; for XML media types it is the raw child markup.
func (c Content) Inline() (string, bool) {
	if c.inline == nil {
		return "", false
	}
	return *c.inline, true
}

// Attrs returns every attribute, type and src included.
func (c Content) Attrs() Attrs { return c.attrs }

// needsSummary reports whether an entry carrying c must also carry a
// summary: external content, and inline media that is neither text nor XML.
func (c Content) needsSummary() bool {
	switch c.Kind() {
	case ContentExternal:
		return true
	case ContentOther:
		return !isTextualMediaType(c.Type())
	}
	return false
}

func isXMLMediaType(typ string) bool {
	typ = mediaType(typ)
	return strings.HasSuffix(typ, "/xml") || strings.HasSuffix(typ, "+xml")
}

func isTextualMediaType(typ string) bool {
	return strings.HasPrefix(mediaType(typ), "text/") || isXMLMediaType(typ)
}

// mediaType strips parameters and normalizes case.
func mediaType(typ string) string {
	typ, _, _ = strings.Cut(typ, ";")
	return strings.ToLower(strings.TrimSpace(typ))
}
