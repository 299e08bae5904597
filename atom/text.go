package atom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// TextKind is the declared content kind of a text construct.
type TextKind int

const (
	TextPlain TextKind = iota
	TextHTML
	TextXHTML
)

func (k TextKind) String() string {
	switch k {
	case TextHTML:
		return "html"
	case TextXHTML:
		return "xhtml"
	default:
		return "text"
	}
}

func parseTextKind(s string) (TextKind, error) {
	switch s {
	case "", "text":
		return TextPlain, nil
	case "html":
		return TextHTML, nil
	case "xhtml":
		return TextXHTML, nil
	}
	return TextPlain, fmt.Errorf("unsupported text construct type %q", s)
}

// Text is a text construct: title, subtitle, summary or rights.
//
// For TextHTML the value is the HTML source (it is escaped again on the
// wire). For TextXHTML the value is the inner markup of the wrapping xhtml
// div, kept verbatim.
type Text struct {
	kind  TextKind
	value string
	attrs Attrs
}

// NewText returns a text construct. A "type" attribute in attrs is ignored;
// kind decides it.
func NewText(kind TextKind, value string, attrs ...Attr) Text {
	return Text{kind: kind, value: value, attrs: NewAttrs(without(attrs, "type")...)}
}

// PlainText returns a plain text construct without attributes.
func PlainText(value string) Text { return NewText(TextPlain, value) }

// HTMLText returns an html text construct without attributes.
func HTMLText(value string) Text { return NewText(TextHTML, value) }

// XHTMLText returns an xhtml text construct holding markup verbatim.
func XHTMLText(markup string) Text { return NewText(TextXHTML, markup) }

// Kind, Value and Attrs return the parts the text was built from.
func (t Text) Kind() TextKind { return t.kind }
func (t Text) Value() string  { return t.value }
func (t Text) Attrs() Attrs   { return t.attrs }

var invisible = cascadia.MustCompile("script, style")

// PlainText renders the construct as plain text. Markup of html and xhtml
// values is dropped; script and style bodies are not included.
func (t Text) PlainText() string {
	if t.kind == TextPlain {
		return t.value
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.value))
	if err != nil {
		return t.value
	}
	doc.FindMatcher(invisible).Remove()
	return doc.Text()
}
