package atom

import "fmt"

// Violation names a structural rule of the format. It implements error so
// callers can match with errors.Is(err, atom.MissingHref).
type Violation string

const (
	MissingName          Violation = "missing name"
	MissingTerm          Violation = "missing term"
	MissingHref          Violation = "missing href"
	MissingURI           Violation = "missing URI"
	MissingID            Violation = "missing id"
	MissingTitle         Violation = "missing title"
	MissingUpdated       Violation = "missing updated"
	MissingAuthor        Violation = "missing author"
	MissingSummary       Violation = "missing summary"
	UnsupportedAttribute Violation = "unsupported attribute"
)

func (v Violation) Error() string {
	return "atom: " + string(v)
}

// StructuralError reports input that cannot form a valid document. It is
// returned by the validating constructors and by the reader when a parsed
// element fails one of them.
type StructuralError struct {
	Violation Violation
	Element   string // element the rule belongs to
	Attr      string // offending attribute name, for UnsupportedAttribute
}

func (e *StructuralError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("atom: <%s>: %s %q", e.Element, e.Violation, e.Attr)
	}
	return fmt.Sprintf("atom: <%s>: %s", e.Element, e.Violation)
}

// Is reports whether target is the Violation carried by e.
func (e *StructuralError) Is(target error) bool {
	v, ok := target.(Violation)
	return ok && v == e.Violation
}

func violation(element string, v Violation) error {
	return &StructuralError{Violation: v, Element: element}
}

func unsupported(element, attr string) error {
	return &StructuralError{Violation: UnsupportedAttribute, Element: element, Attr: attr}
}

// StreamError reports malformed or unexpected markup while reading, or a
// failure of the underlying sink while writing. The partially read document
// is discarded.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return "atom: stream error: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

func streamErrorf(format string, args ...any) error {
	return &StreamError{Err: fmt.Errorf(format, args...)}
}
