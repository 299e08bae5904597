package atom

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

const (
	xhtmlNamespace = "http://www.w3.org/1999/xhtml"
	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
)

// ReadFeed parses a complete document from r. Malformed markup yields a
// *StreamError; a document that breaks a structural rule yields a
// *StructuralError. No partial feed is returned.
func ReadFeed(r io.Reader) (*Feed, error) {
	rd := &reader{p: xpp.NewXMLPullParser(r, true, charset.NewReaderLabel)}
	return rd.feed()
}

// ReadFeedBytes parses a document held in memory.
func ReadFeedBytes(b []byte) (*Feed, error) {
	return ReadFeed(bytes.NewReader(b))
}

// ReadFeedString parses a document held in a string.
func ReadFeedString(s string) (*Feed, error) {
	return ReadFeed(strings.NewReader(s))
}

// ReadFeedFile parses the document stored at path.
func ReadFeedFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFeed(f)
}

var (
	commonChildren = []string{"id", "title", "updated", "rights", "author", "contributor", "category", "link"}

	// children lists the format elements each container understands;
	// anything else inside it is kept as an extension.
	children = map[string]map[string]bool{
		"feed":   elementSet("subtitle", "generator", "icon", "logo", "entry"),
		"source": elementSet("subtitle", "generator", "icon", "logo"),
		"entry":  elementSet("published", "summary", "content", "source"),
	}
)

func elementSet(names ...string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range append(commonChildren, names...) {
		set[name] = true
	}
	return set
}

type nsDecl struct {
	prefix string
	uri    string
}

// reader walks the pull parser's event stream. It keeps its own stack of
// namespace declarations so that prefixes can be written back as they
// were read.
type reader struct {
	p      *xpp.XMLPullParser
	scopes [][]nsDecl
}

// container accumulates the children of a feed, entry or source.
type container struct {
	meta      MetadataFields
	published *time.Time
	summary   *Text
	content   *Content
	source    *Source
	entries   []Entry
}

func (r *reader) next() (xpp.XMLEventType, error) {
	ev, err := r.p.Next()
	if err != nil {
		return ev, &StreamError{Err: err}
	}
	switch ev {
	case xpp.StartTag:
		var decls []nsDecl
		for _, a := range r.p.Attrs {
			switch {
			case a.Name.Space == "xmlns":
				decls = append(decls, nsDecl{prefix: a.Name.Local, uri: a.Value})
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				decls = append(decls, nsDecl{uri: a.Value})
			}
		}
		r.scopes = append(r.scopes, decls)
	case xpp.EndTag:
		r.pop()
	}
	return ev, nil
}

func (r *reader) pop() {
	if len(r.scopes) > 0 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

// decode consumes the current element, through its end tag, into v.
func (r *reader) decode(v any) error {
	err := r.p.DecodeElement(v)
	r.pop()
	if err != nil {
		return &StreamError{Err: err}
	}
	return nil
}

func (r *reader) skip() error {
	return r.decode(&struct{}{})
}

// resolve returns the namespace bound to prefix at the current element.
func (r *reader) resolve(prefix string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		for _, d := range r.scopes[i] {
			if d.prefix == prefix {
				return d.uri, true
			}
		}
	}
	return "", false
}

// prefixFor finds a prefix bound to uri that is not shadowed. Attributes
// never take the default namespace.
func (r *reader) prefixFor(uri string, attr bool) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		for _, d := range r.scopes[i] {
			if d.uri != uri || (attr && d.prefix == "") {
				continue
			}
			if bound, _ := r.resolve(d.prefix); bound == uri {
				return d.prefix, true
			}
		}
	}
	return "", false
}

// qname turns a namespace-resolved name back into the qualified name.
func (r *reader) qname(space, local string, attr bool) string {
	switch {
	case space == "":
		return local
	case attr && space == "xmlns":
		return "xmlns:" + local
	case space == xmlNamespace:
		return "xml:" + local
	}
	prefix, ok := r.prefixFor(space, attr)
	if !ok {
		// An undeclared prefix is left in place by the decoder.
		return space + ":" + local
	}
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func (r *reader) attrs() []Attr {
	var attrs []Attr
	for _, a := range r.p.Attrs {
		attrs = append(attrs, Attr{Name: r.qname(a.Name.Space, a.Name.Local, true), Value: a.Value})
	}
	return attrs
}

func (r *reader) isFormat(name string) bool {
	return r.p.Space == Namespace && r.p.Name == name
}

func (r *reader) feed() (*Feed, error) {
	if err := r.root(); err != nil {
		return nil, err
	}
	var attrs []Attr
	for _, a := range r.attrs() {
		// The writer always declares the format namespace on the root.
		if a.Name == "xmlns" && a.Value == Namespace {
			continue
		}
		attrs = append(attrs, a)
	}
	c, err := r.container("feed")
	if err != nil {
		return nil, err
	}
	c.meta.Attrs = attrs
	f, err := NewFeed(NewMetadata(c.meta), c.entries...)
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *reader) root() error {
	for {
		ev, err := r.next()
		if err != nil {
			return err
		}
		switch ev {
		case xpp.StartTag:
			if !r.isFormat("feed") {
				return streamErrorf("root element is <%s>, want <feed> in %s", r.qname(r.p.Space, r.p.Name, false), Namespace)
			}
			return nil
		case xpp.Text:
			if !isWhitespace(r.p.Text) {
				return streamErrorf("character data before the root element")
			}
		case xpp.EndDocument:
			return streamErrorf("document has no root element")
		default:
			return streamErrorf("unexpected %s before the root element", r.p.EventName(ev))
		}
	}
}

// end checks that nothing but whitespace follows the root element.
func (r *reader) end() error {
	for {
		ev, err := r.next()
		if err != nil {
			return err
		}
		switch ev {
		case xpp.EndDocument:
			return nil
		case xpp.Text:
			if !isWhitespace(r.p.Text) {
				return streamErrorf("character data after </feed>")
			}
		default:
			return streamErrorf("unexpected %s after </feed>", r.p.EventName(ev))
		}
	}
}

// container reads the children of a feed, entry or source until the
// closing tag of that element.
func (r *reader) container(closing string) (*container, error) {
	c := &container{}
	allowed := children[closing]
	for {
		ev, err := r.next()
		if err != nil {
			return nil, err
		}
		switch ev {
		case xpp.EndTag:
			return c, nil
		case xpp.EndDocument:
			return nil, streamErrorf("unexpected end of document in <%s>", closing)
		case xpp.Text:
			if !isWhitespace(r.p.Text) {
				return nil, streamErrorf("unexpected character data in <%s>", closing)
			}
		case xpp.StartTag:
			if r.p.Space == Namespace && allowed[r.p.Name] {
				err = r.child(c, closing)
			} else {
				var x Extension
				if x, err = r.extension(); err == nil {
					c.meta.Extensions = append(c.meta.Extensions, x)
				}
			}
			if err != nil {
				return nil, err
			}
		}
	}
}

func (r *reader) child(c *container, parent string) error {
	name := r.p.Name
	switch name {
	case "id":
		attrs := r.attrs()
		s, err := r.text(name)
		if err != nil {
			return err
		}
		id, err := NewID(s, attrs...)
		if err != nil {
			return err
		}
		return setOnce(&c.meta.ID, id, name, parent)
	case "icon":
		attrs := r.attrs()
		s, err := r.text(name)
		if err != nil {
			return err
		}
		icon, err := NewIcon(s, attrs...)
		if err != nil {
			return err
		}
		return setOnce(&c.meta.Icon, icon, name, parent)
	case "logo":
		attrs := r.attrs()
		s, err := r.text(name)
		if err != nil {
			return err
		}
		logo, err := NewLogo(s, attrs...)
		if err != nil {
			return err
		}
		return setOnce(&c.meta.Logo, logo, name, parent)
	case "updated", "published":
		t, err := r.dateTime(name)
		if err != nil {
			return err
		}
		if name == "updated" {
			return setOnce(&c.meta.Updated, t, name, parent)
		}
		return setOnce(&c.published, t, name, parent)
	case "title", "subtitle", "rights", "summary":
		t, err := r.textConstruct(name)
		if err != nil {
			return err
		}
		switch name {
		case "title":
			return setOnce(&c.meta.Title, t, name, parent)
		case "subtitle":
			return setOnce(&c.meta.Subtitle, t, name, parent)
		case "rights":
			return setOnce(&c.meta.Rights, t, name, parent)
		}
		return setOnce(&c.summary, t, name, parent)
	case "author", "contributor":
		p, err := r.person(name)
		if err != nil {
			return err
		}
		if name == "author" {
			c.meta.Authors = append(c.meta.Authors, p)
		} else {
			c.meta.Contributors = append(c.meta.Contributors, p)
		}
	case "category":
		attrs := r.attrs()
		if err := r.skip(); err != nil {
			return err
		}
		cat, err := NewCategory(attrs...)
		if err != nil {
			return err
		}
		c.meta.Categories = append(c.meta.Categories, cat)
	case "link":
		attrs := r.attrs()
		if err := r.skip(); err != nil {
			return err
		}
		l, err := NewLink(attrs...)
		if err != nil {
			return err
		}
		c.meta.Links = append(c.meta.Links, l)
	case "generator":
		attrs := r.attrs()
		s, err := r.text(name)
		if err != nil {
			return err
		}
		return setOnce(&c.meta.Generator, NewGenerator(s, attrs...), name, parent)
	case "content":
		content, err := r.content()
		if err != nil {
			return err
		}
		return setOnce(&c.content, content, name, parent)
	case "source":
		attrs := r.attrs()
		sc, err := r.container("source")
		if err != nil {
			return err
		}
		sc.meta.Attrs = attrs
		return setOnce(&c.source, NewSource(NewMetadata(sc.meta)), name, parent)
	case "entry":
		e, err := r.entry()
		if err != nil {
			return err
		}
		c.entries = append(c.entries, e)
	}
	return nil
}

// entry reads an entry through the same routine as feed and source.
func (r *reader) entry() (Entry, error) {
	attrs := r.attrs()
	c, err := r.container("entry")
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(EntryFields{
		ID:           c.meta.ID,
		Title:        c.meta.Title,
		Updated:      c.meta.Updated,
		Published:    c.published,
		Content:      c.content,
		Summary:      c.summary,
		Rights:       c.meta.Rights,
		Source:       c.source,
		Authors:      c.meta.Authors,
		Contributors: c.meta.Contributors,
		Categories:   c.meta.Categories,
		Links:        c.meta.Links,
		Extensions:   c.meta.Extensions,
		Attrs:        attrs,
	})
}

// text reads character data up to the end of the current element.
func (r *reader) text(element string) (string, error) {
	var b strings.Builder
	for {
		ev, err := r.next()
		if err != nil {
			return "", err
		}
		switch ev {
		case xpp.Text:
			b.WriteString(r.p.Text)
		case xpp.EndTag:
			return b.String(), nil
		case xpp.StartTag:
			return "", streamErrorf("unexpected element <%s> in <%s>", r.p.Name, element)
		case xpp.EndDocument:
			return "", streamErrorf("unexpected end of document in <%s>", element)
		}
	}
}

func (r *reader) dateTime(element string) (time.Time, error) {
	s, err := r.text(element)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return time.Time{}, streamErrorf("<%s>: %w", element, err)
	}
	return t, nil
}

func (r *reader) textConstruct(element string) (Text, error) {
	attrs := r.attrs()
	typ, _ := NewAttrs(attrs...).Get("type")
	kind, err := parseTextKind(typ)
	if err != nil {
		return Text{}, streamErrorf("<%s>: %w", element, err)
	}
	if kind != TextXHTML {
		s, err := r.text(element)
		if err != nil {
			return Text{}, err
		}
		return NewText(kind, s, attrs...), nil
	}
	markup, decls, err := r.xhtmlDiv(element)
	if err != nil {
		return Text{}, err
	}
	return NewText(kind, markup, append(attrs, decls...)...), nil
}

// xhtmlDiv reads the single xhtml div wrapping xhtml content and returns
// its inner markup verbatim. Prefixed namespace declarations on the div are
// returned so they can be declared on the enclosing element instead.
func (r *reader) xhtmlDiv(element string) (string, []Attr, error) {
	var (
		markup string
		decls  []Attr
		found  bool
	)
	for {
		ev, err := r.next()
		if err != nil {
			return "", nil, err
		}
		switch ev {
		case xpp.EndTag:
			if !found {
				return "", nil, streamErrorf("xhtml <%s> has no div", element)
			}
			return markup, decls, nil
		case xpp.EndDocument:
			return "", nil, streamErrorf("unexpected end of document in <%s>", element)
		case xpp.Text:
			if !isWhitespace(r.p.Text) {
				return "", nil, streamErrorf("xhtml <%s> holds character data outside its div", element)
			}
		case xpp.StartTag:
			if found || r.p.Space != xhtmlNamespace || r.p.Name != "div" {
				return "", nil, streamErrorf("xhtml <%s> must hold a single xhtml div", element)
			}
			for _, a := range r.attrs() {
				if strings.HasPrefix(a.Name, "xmlns:") {
					decls = append(decls, a)
				}
			}
			var div struct {
				Inner string `xml:",innerxml"`
			}
			if err := r.decode(&div); err != nil {
				return "", nil, err
			}
			markup, found = div.Inner, true
		}
	}
}

func (r *reader) content() (Content, error) {
	attrs := r.attrs()
	probe := NewContent(attrs, nil)
	switch kind := probe.Kind(); {
	case kind == ContentXHTML:
		markup, decls, err := r.xhtmlDiv("content")
		if err != nil {
			return Content{}, err
		}
		return NewContent(append(attrs, decls...), &markup), nil
	case kind == ContentOther && isXMLMediaType(probe.Type()):
		var raw struct {
			Inner string `xml:",innerxml"`
		}
		if err := r.decode(&raw); err != nil {
			return Content{}, err
		}
		return NewContent(attrs, &raw.Inner), nil
	case kind == ContentExternal:
		s, err := r.text("content")
		if err != nil {
			return Content{}, err
		}
		if isWhitespace(s) {
			return NewContent(attrs, nil), nil
		}
		return NewContent(attrs, &s), nil
	default:
		s, err := r.text("content")
		if err != nil {
			return Content{}, err
		}
		return NewContent(attrs, &s), nil
	}
}

func (r *reader) person(element string) (Person, error) {
	f := PersonFields{Attrs: r.attrs()}
	for {
		ev, err := r.next()
		if err != nil {
			return Person{}, err
		}
		switch ev {
		case xpp.EndTag:
			p, err := NewPerson(f)
			if se, ok := err.(*StructuralError); ok {
				se.Element = element
			}
			return p, err
		case xpp.EndDocument:
			return Person{}, streamErrorf("unexpected end of document in <%s>", element)
		case xpp.Text:
			if !isWhitespace(r.p.Text) {
				return Person{}, streamErrorf("unexpected character data in <%s>", element)
			}
		case xpp.StartTag:
			switch {
			case r.isFormat("name"):
				f.Name, err = r.text("name")
			case r.isFormat("uri"):
				f.URI, err = r.text("uri")
			case r.isFormat("email"):
				f.Email, err = r.text("email")
			default:
				var x Extension
				if x, err = r.extension(); err == nil {
					f.Extensions = append(f.Extensions, x)
				}
			}
			if err != nil {
				return Person{}, err
			}
		}
	}
}

// extension captures the current element opaquely. Declarations for the
// prefixes its name and attributes use are added when they were made on
// an ancestor, so the element can be replayed on its own.
func (r *reader) extension() (Extension, error) {
	name := r.qname(r.p.Space, r.p.Name, false)
	attrs := r.attrs()
	present := NewAttrs(attrs...)

	var needed []string
	if prefix, _, ok := strings.Cut(name, ":"); ok {
		needed = append(needed, prefix)
	} else if r.p.Space != "" && r.p.Space != Namespace {
		needed = append(needed, "")
	}
	for _, a := range attrs {
		if prefix, _, ok := strings.Cut(a.Name, ":"); ok && prefix != "xml" && prefix != "xmlns" {
			needed = append(needed, prefix)
		}
	}
	for _, prefix := range needed {
		decl := "xmlns"
		if prefix != "" {
			decl += ":" + prefix
		}
		if present.Has(decl) {
			continue
		}
		if uri, ok := r.resolve(prefix); ok {
			attrs = append(attrs, Attr{Name: decl, Value: uri})
			present = NewAttrs(attrs...)
		}
	}
	// An unprefixed name in no namespace must not pick up the format
	// namespace the writer declares on the root.
	if r.p.Space == "" && !strings.Contains(name, ":") && !present.Has("xmlns") {
		attrs = append(attrs, Attr{Name: "xmlns", Value: ""})
	}

	var raw struct {
		Inner string `xml:",innerxml"`
	}
	if err := r.decode(&raw); err != nil {
		return Extension{}, err
	}
	return NewExtension(name, attrs, raw.Inner)
}

func setOnce[T any](dst **T, v T, name, parent string) error {
	if *dst != nil {
		return streamErrorf("duplicate <%s> in <%s>", name, parent)
	}
	*dst = &v
	return nil
}

func isWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}
