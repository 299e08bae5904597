package atom

import "strings"

// Extension is an element the format does not define. It is kept opaque:
// the qualified name and attributes as written (namespace declarations
// included) and the raw inner markup.
type Extension struct {
	name    string
	attrs   Attrs
	content string
}

// NewExtension returns an extension element. content is raw markup and is
// written back without escaping.
func NewExtension(name string, attrs []Attr, content string) (Extension, error) {
	if strings.TrimSpace(name) == "" {
		return Extension{}, violation("extension", MissingName)
	}
	return Extension{name: name, attrs: NewAttrs(attrs...), content: content}, nil
}

// Name returns the qualified name, e.g. "dc:creator".
func (x Extension) Name() string { return x.name }

// Attrs returns the attributes, including namespace declarations.
func (x Extension) Attrs() Attrs { return x.attrs }

// Content returns the raw inner markup.
func (x Extension) Content() string { return x.content }
