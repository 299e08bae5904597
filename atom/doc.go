// Package atom reads and writes Atom syndication documents.
//
// Documents are held in an immutable model. Every element type has a
// validating constructor, so a value that exists is structurally valid:
// NewLink without an href fails with MissingHref, NewEntry without an id
// fails with MissingID, and so on. Feeds keep their entries in an
// EntryIndex ordered by updated time or by title.
//
// ReadFeed parses a document into the model. Elements the format does not
// define are kept as Extension values, with their markup untouched, and
// WriteFeed puts them back. Reading and then writing a feed preserves the
// model.
//
//	f, err := atom.ReadFeedFile("blog.xml")
//	if err != nil {
//		return err
//	}
//	f = atom.SortEntries(f, atom.Descending, atom.ByUpdated)
//	return atom.WriteFeed(os.Stdout, f, atom.WriteOptions{Indent: "  "})
package atom
