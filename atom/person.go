package atom

import "strings"

// PersonFields holds the parts of a person construct.
type PersonFields struct {
	Name       string
	URI        string
	Email      string
	Attrs      []Attr
	Extensions []Extension
}

// Person is a person construct, used for authors and contributors.
type Person struct {
	name       string
	uri        string
	email      string
	attrs      Attrs
	extensions List[Extension]
}

// NewPerson validates f and returns the person it describes. A person
// without a name is rejected with MissingName.
func NewPerson(f PersonFields) (Person, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Person{}, violation("person", MissingName)
	}
	return Person{
		name:       f.Name,
		uri:        f.URI,
		email:      f.Email,
		attrs:      NewAttrs(f.Attrs...),
		extensions: ListOf(f.Extensions...),
	}, nil
}

// Name returns the human-readable name.
func (p Person) Name() string { return p.name }

// URI returns the IRI associated with the person, if any.
func (p Person) URI() string { return p.uri }

// Email returns the e-mail address, if any.
func (p Person) Email() string { return p.email }

// Attrs returns the attributes of the person element.
func (p Person) Attrs() Attrs { return p.attrs }

// Extensions returns the foreign elements found among the person's children.
func (p Person) Extensions() List[Extension] { return p.extensions }
