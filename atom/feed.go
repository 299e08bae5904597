package atom

// Namespace is the namespace URI of the format's elements.
const Namespace = "http://www.w3.org/2005/Atom"

// Feed is a complete document: the metadata bundle and the entry index.
type Feed struct {
	Metadata
	entries EntryIndex
}

// NewFeed returns a feed holding entries, indexed by updated time in
// ascending order. Each entry is checked as AddEntry would check it. The
// feed's own id, title and updated are not required here.
func NewFeed(meta Metadata, entries ...Entry) (*Feed, error) {
	f := &Feed{Metadata: meta}
	for _, e := range entries {
		if err := f.admit(e); err != nil {
			return nil, err
		}
	}
	f.entries = buildIndex(ByUpdated, Ascending, entries)
	return f, nil
}

// AddEntry returns a copy of f that also holds e, placed by the feed's
// current ordering. f is left unchanged.
func (f *Feed) AddEntry(e Entry) (*Feed, error) {
	if err := f.admit(e); err != nil {
		return nil, err
	}
	return &Feed{Metadata: f.Metadata, entries: f.entries.with(e)}, nil
}

// Entries returns the entry index.
func (f *Feed) Entries() EntryIndex { return f.entries }

// admit applies the entry rules, including the author rule: an entry needs
// an author of its own, one from its source, or one from the feed.
func (f *Feed) admit(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.authors.Len() > 0 || f.authors.Len() > 0 {
		return nil
	}
	if src, ok := e.Source(); ok && src.authors.Len() > 0 {
		return nil
	}
	return violation("entry", MissingAuthor)
}
