package atom

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// WriteOptions controls how a feed is serialized.
type WriteOptions struct {
	// Encoding is the IANA name of the output charset. Empty means UTF-8.
	// Characters the charset cannot represent are written as character
	// references.
	Encoding string
	// XMLVersion goes into the XML declaration. Empty means "1.0". Only the
	// version is changed; ReadFeed itself reads 1.0 documents only.
	XMLVersion string
	// Indent is repeated once per nesting level. Empty writes no
	// insignificant whitespace.
	Indent string
	// Location is the zone date constructs are rendered in. Nil means
	// time.Local.
	Location *time.Location
}

// WriteFeed serializes f to w: an XML declaration, then the feed with the
// format namespace declared on the root. Failures of w are reported as
// *StreamError.
func WriteFeed(w io.Writer, f *Feed, opts WriteOptions) error {
	charsetName := opts.Encoding
	if charsetName == "" {
		charsetName = "UTF-8"
	}
	version := opts.XMLVersion
	if version == "" {
		version = "1.0"
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	out := w
	var transcoder io.Closer
	if !isUTF8(charsetName) {
		e, err := ianaindex.IANA.Encoding(charsetName)
		if err != nil || e == nil {
			return &StreamError{Err: fmt.Errorf("unsupported encoding %q", charsetName)}
		}
		out = encoding.HTMLEscapeUnsupported(e.NewEncoder()).Writer(w)
		transcoder, _ = out.(io.Closer)
	}

	fw := &writer{out: out, enc: xml.NewEncoder(out), loc: loc}
	fw.enc.Indent("", opts.Indent)
	fw.token(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(fmt.Sprintf(`version="%s" encoding="%s"`, version, charsetName)),
	})
	if opts.Indent != "" {
		fw.raw("\n")
	}
	fw.feed(f)
	if fw.err == nil {
		fw.fail(fw.enc.Close())
	}
	if transcoder != nil {
		fw.fail(transcoder.Close())
	}
	return fw.err
}

// WriteFeedFile writes f to the file at path, replacing its contents.
func WriteFeedFile(path string, f *Feed, opts WriteOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFeed(file, f, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// FeedString renders f as indented UTF-8 with dates in local time.
func FeedString(f *Feed) (string, error) {
	var b strings.Builder
	if err := WriteFeed(&b, f, WriteOptions{Indent: "  "}); err != nil {
		return "", err
	}
	return b.String(), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// writer emits tokens with qualified names exactly as the model stores
// them. The first error sticks; later calls do nothing.
type writer struct {
	out io.Writer
	enc *xml.Encoder
	loc *time.Location
	err error
}

func (w *writer) fail(err error) {
	if err != nil && w.err == nil {
		w.err = &StreamError{Err: err}
	}
}

func (w *writer) token(t xml.Token) {
	if w.err == nil {
		w.fail(w.enc.EncodeToken(t))
	}
}

func (w *writer) start(name string, attrs []Attr) {
	se := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	w.token(se)
}

func (w *writer) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) chars(s string) {
	if s != "" {
		w.token(xml.CharData(s))
	}
}

// raw writes markup without escaping. The encoder is flushed first so the
// bytes land after the tokens already emitted.
func (w *writer) raw(s string) {
	if w.err != nil || s == "" {
		return
	}
	if err := w.enc.Flush(); err != nil {
		w.fail(err)
		return
	}
	_, err := io.WriteString(w.out, s)
	w.fail(err)
}

func (w *writer) element(name string, attrs []Attr, s string) {
	w.start(name, attrs)
	w.chars(s)
	w.end(name)
}

func (w *writer) feed(f *Feed) {
	attrs := append([]Attr{{Name: "xmlns", Value: Namespace}}, without(f.attrs.items, "xmlns")...)
	w.start("feed", attrs)
	w.metadata(f.Metadata)
	for e := range f.entries.Entries() {
		w.entry(e)
	}
	w.end("feed")
}

func (w *writer) metadata(m Metadata) {
	if m.id != nil {
		w.element("id", m.id.attrs.items, m.id.uri)
	}
	if m.updated != nil {
		w.date("updated", *m.updated)
	}
	if m.title != nil {
		w.text("title", *m.title)
	}
	if m.subtitle != nil {
		w.text("subtitle", *m.subtitle)
	}
	w.people("author", m.authors)
	w.people("contributor", m.contributors)
	w.links(m.links)
	w.categories(m.categories)
	if m.icon != nil {
		w.element("icon", m.icon.attrs.items, m.icon.uri)
	}
	if m.logo != nil {
		w.element("logo", m.logo.attrs.items, m.logo.uri)
	}
	if m.rights != nil {
		w.text("rights", *m.rights)
	}
	if m.generator != nil {
		w.element("generator", m.generator.attrs.items, m.generator.text)
	}
	w.extensions(m.extensions)
}

func (w *writer) entry(e Entry) {
	w.start("entry", e.attrs.items)
	if e.id != nil {
		w.element("id", e.id.attrs.items, e.id.uri)
	}
	if e.updated != nil {
		w.date("updated", *e.updated)
	}
	if e.published != nil {
		w.date("published", *e.published)
	}
	if e.title != nil {
		w.text("title", *e.title)
	}
	w.people("author", e.authors)
	w.people("contributor", e.contributors)
	w.links(e.links)
	w.categories(e.categories)
	if e.rights != nil {
		w.text("rights", *e.rights)
	}
	if e.summary != nil {
		w.text("summary", *e.summary)
	}
	if e.content != nil {
		w.content(*e.content)
	}
	if e.source != nil {
		w.start("source", e.source.attrs.items)
		w.metadata(e.source.Metadata)
		w.end("source")
	}
	w.extensions(e.extensions)
	w.end("entry")
}

func (w *writer) date(name string, t time.Time) {
	w.element(name, nil, FormatDateTime(t, w.loc))
}

func (w *writer) text(name string, t Text) {
	attrs := t.attrs.items
	if t.kind != TextPlain {
		attrs = append([]Attr{{Name: "type", Value: t.kind.String()}}, attrs...)
	}
	w.start(name, attrs)
	if t.kind == TextXHTML {
		w.xhtmlDiv(t.value)
	} else {
		w.chars(t.value)
	}
	w.end(name)
}

func (w *writer) xhtmlDiv(markup string) {
	w.start("div", []Attr{{Name: "xmlns", Value: xhtmlNamespace}})
	w.raw(markup)
	w.end("div")
}

func (w *writer) content(c Content) {
	w.start("content", c.attrs.items)
	if inline, ok := c.Inline(); ok {
		switch kind := c.Kind(); {
		case kind == ContentXHTML:
			w.xhtmlDiv(inline)
		case kind == ContentOther && isXMLMediaType(c.Type()):
			w.raw(inline)
		default:
			w.chars(inline)
		}
	}
	w.end("content")
}

func (w *writer) people(name string, people List[Person]) {
	for p := range people.Values() {
		w.start(name, p.attrs.items)
		w.element("name", nil, p.name)
		if p.uri != "" {
			w.element("uri", nil, p.uri)
		}
		if p.email != "" {
			w.element("email", nil, p.email)
		}
		w.extensions(p.extensions)
		w.end(name)
	}
}

func (w *writer) links(links List[Link]) {
	for l := range links.Values() {
		w.start("link", l.attrs.items)
		w.end("link")
	}
}

func (w *writer) categories(categories List[Category]) {
	for c := range categories.Values() {
		w.start("category", c.attrs.items)
		w.end("category")
	}
}

func (w *writer) extensions(extensions List[Extension]) {
	for x := range extensions.Values() {
		w.start(x.name, x.attrs.items)
		w.raw(x.content)
		w.end(x.name)
	}
}
