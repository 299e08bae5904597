package atom_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raffaelramalhorosa/atomkit/atom"
)

const sampleFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:dc="http://purl.org/dc/elements/1.1/" xml:lang="en">
  <title type="text">dive into mark</title>
  <subtitle type="html">A &lt;em&gt;lot&lt;/em&gt; of effort went into making this effortless</subtitle>
  <updated>2005-07-31T12:29:29Z</updated>
  <id>tag:example.org,2003:3</id>
  <link rel="alternate" type="text/html" hreflang="en" href="http://example.org/"/>
  <link rel="self" type="application/atom+xml" href="http://example.org/feed.atom"/>
  <rights>Copyright (c) 2003, Mark Pilgrim</rights>
  <generator uri="http://www.example.com/" version="1.0">Example Toolkit</generator>
  <dc:publisher>Example Press</dc:publisher>
  <entry>
    <title>Atom draft-07 snapshot</title>
    <link rel="alternate" type="text/html" href="http://example.org/2005/04/02/atom"/>
    <link rel="enclosure" type="audio/mpeg" length="1337" href="http://example.org/audio/ph34r_my_podcast.mp3"/>
    <id>tag:example.org,2003:3.2397</id>
    <updated>2005-07-31T12:29:29Z</updated>
    <published>2003-12-13T08:29:29-04:00</published>
    <author>
      <name>Mark Pilgrim</name>
      <uri>http://example.org/</uri>
      <email>f8dy@example.com</email>
    </author>
    <contributor>
      <name>Sam Ruby</name>
    </contributor>
    <category term="atom" scheme="http://example.org/tags" label="Atom"/>
    <content type="xhtml" xml:lang="en" xml:base="http://diveintomark.org/">
      <div xmlns="http://www.w3.org/1999/xhtml"><p><i>[Update: The Atom draft is finished.]</i></p></div>
    </content>
  </entry>
</feed>
`

func TestReadSampleFeed(t *testing.T) {
	f, err := atom.ReadFeedString(sampleFeed)
	if err != nil {
		t.Fatalf("ReadFeedString: %v", err)
	}

	title, _ := f.Title()
	if title.Kind() != atom.TextPlain || title.Value() != "dive into mark" {
		t.Fatalf("unexpected title %+v", title)
	}
	subtitle, _ := f.Subtitle()
	if subtitle.Kind() != atom.TextHTML || subtitle.Value() != "A <em>lot</em> of effort went into making this effortless" {
		t.Fatalf("unexpected subtitle %q", subtitle.Value())
	}
	if lang, _ := f.Attrs().Get("xml:lang"); lang != "en" {
		t.Fatalf("expected xml:lang en on feed, got %q", lang)
	}
	if f.Attrs().Has("xmlns") {
		t.Fatal("expected the format namespace declaration not to be kept")
	}
	if f.Links().Len() != 2 {
		t.Fatalf("expected 2 feed links, got %d", f.Links().Len())
	}
	gen, _ := f.Generator()
	if gen.Text() != "Example Toolkit" || gen.Version() != "1.0" {
		t.Fatalf("unexpected generator %+v", gen)
	}

	if f.Extensions().Len() != 1 {
		t.Fatalf("expected 1 feed extension, got %d", f.Extensions().Len())
	}
	pub := f.Extensions().At(0)
	if pub.Name() != "dc:publisher" || pub.Content() != "Example Press" {
		t.Fatalf("unexpected extension %s %q", pub.Name(), pub.Content())
	}
	if uri, _ := pub.Attrs().Get("xmlns:dc"); uri != "http://purl.org/dc/elements/1.1/" {
		t.Fatalf("expected inherited dc declaration on extension, got %q", uri)
	}

	if f.Entries().Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", f.Entries().Len())
	}
	e := f.Entries().At(0)

	published, _ := e.Published()
	if want := time.Date(2003, 12, 13, 12, 29, 29, 0, time.UTC); !published.Equal(want) {
		t.Fatalf("expected published %v, got %v", want, published)
	}
	if e.Authors().At(0).Email() != "f8dy@example.com" {
		t.Fatalf("unexpected author %+v", e.Authors().At(0))
	}
	if e.Categories().At(0).Label() != "Atom" {
		t.Fatalf("unexpected category %+v", e.Categories().At(0))
	}
	if e.Links().At(1).Length() != "1337" {
		t.Fatalf("expected enclosure length 1337, got %q", e.Links().At(1).Length())
	}

	content, ok := e.Content()
	if !ok || content.Kind() != atom.ContentXHTML {
		t.Fatalf("expected xhtml content, got %+v", content)
	}
	inline, _ := content.Inline()
	if inline != "<p><i>[Update: The Atom draft is finished.]</i></p>" {
		t.Fatalf("unexpected xhtml content %q", inline)
	}
	if base, _ := content.Attrs().Get("xml:base"); base != "http://diveintomark.org/" {
		t.Fatalf("expected xml:base on content, got %q", base)
	}
}

func TestReadXHTMLTitleWithNestedTitle(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml">Less: <title>&lt;nested&gt;</title> <em>more</em></div></title>
  <id>urn:feed</id>
</feed>`

	f, err := atom.ReadFeedString(doc)
	if err != nil {
		t.Fatalf("ReadFeedString: %v", err)
	}
	title, _ := f.Title()
	if want := "Less: <title>&lt;nested&gt;</title> <em>more</em>"; title.Value() != want {
		t.Fatalf("expected %q, got %q", want, title.Value())
	}
	if id, _ := f.ID(); id.URI() != "urn:feed" {
		t.Fatalf("expected parsing to resume after the title, got id %q", id.URI())
	}
}

func TestReadXHTMLPrefixedDiv(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <subtitle type="xhtml"><xh:div xmlns:xh="http://www.w3.org/1999/xhtml"><xh:b>bold</xh:b></xh:div></subtitle>
</feed>`

	f, err := atom.ReadFeedString(doc)
	if err != nil {
		t.Fatalf("ReadFeedString: %v", err)
	}
	subtitle, _ := f.Subtitle()
	if subtitle.Value() != "<xh:b>bold</xh:b>" {
		t.Fatalf("unexpected markup %q", subtitle.Value())
	}
	if uri, _ := subtitle.Attrs().Get("xmlns:xh"); uri != "http://www.w3.org/1999/xhtml" {
		t.Fatalf("expected the div's prefix declaration to move to the subtitle, got %q", uri)
	}
}

func TestReadExtensionsInEntryAndPerson(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <entry>
    <id>urn:e</id>
    <title>t</title>
    <updated>2024-01-01T00:00:00Z</updated>
    <author>
      <name>Ann</name>
      <foaf:nick xmlns:foaf="http://xmlns.com/foaf/0.1/">ann</foaf:nick>
    </author>
    <media:thumbnail url="http://x/t.jpg" media:width="75"/>
    <rating xmlns="urn:x:rating" value="5"><stars>*****</stars></rating>
    <bogus>kept</bogus>
  </entry>
</feed>`

	f, err := atom.ReadFeedString(doc)
	if err != nil {
		t.Fatalf("ReadFeedString: %v", err)
	}
	e := f.Entries().At(0)

	nick := e.Authors().At(0).Extensions().At(0)
	if nick.Name() != "foaf:nick" || nick.Content() != "ann" {
		t.Fatalf("unexpected person extension %s %q", nick.Name(), nick.Content())
	}

	if e.Extensions().Len() != 3 {
		t.Fatalf("expected 3 entry extensions, got %d", e.Extensions().Len())
	}

	thumb := e.Extensions().At(0)
	want := []atom.Attr{
		{Name: "url", Value: "http://x/t.jpg"},
		{Name: "media:width", Value: "75"},
		{Name: "xmlns:media", Value: "http://search.yahoo.com/mrss/"},
	}
	if thumb.Name() != "media:thumbnail" || thumb.Attrs().Len() != len(want) {
		t.Fatalf("unexpected thumbnail %s %v", thumb.Name(), thumb.Attrs())
	}
	for i, attr := range want {
		if got := thumb.Attrs().At(i); got != attr {
			t.Fatalf("attribute %d: expected %v, got %v", i, attr, got)
		}
	}

	rating := e.Extensions().At(1)
	if rating.Name() != "rating" || rating.Content() != "<stars>*****</stars>" {
		t.Fatalf("unexpected rating extension %s %q", rating.Name(), rating.Content())
	}
	if ns, _ := rating.Attrs().Get("xmlns"); ns != "urn:x:rating" {
		t.Fatalf("expected default namespace on rating, got %q", ns)
	}

	bogus := e.Extensions().At(2)
	if bogus.Name() != "bogus" || bogus.Attrs().Len() != 0 {
		t.Fatalf("expected unknown format element kept as is, got %s %v", bogus.Name(), bogus.Attrs())
	}
}

func TestReadContentVariants(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <author><name>Ann</name></author>
  <entry>
    <id>urn:a</id><title>a</title><updated>2024-01-01T00:00:00Z</updated>
    <content type="application/xml"><data><x>1</x></data></content>
  </entry>
  <entry>
    <id>urn:b</id><title>b</title><updated>2024-01-02T00:00:00Z</updated>
    <summary>Listen</summary>
    <content type="audio/mpeg" src="http://x/b.mp3"/>
  </entry>
  <entry>
    <id>urn:c</id><title>c</title><updated>2024-01-03T00:00:00Z</updated>
    <content type="html">&lt;p&gt;hi&lt;/p&gt;</content>
  </entry>
</feed>`

	f, err := atom.ReadFeedString(doc)
	if err != nil {
		t.Fatalf("ReadFeedString: %v", err)
	}

	tests := []struct {
		kind   atom.ContentKind
		inline string
		hasIt  bool
	}{
		{atom.ContentOther, "<data><x>1</x></data>", true},
		{atom.ContentExternal, "", false},
		{atom.ContentHTML, "<p>hi</p>", true},
	}
	for i, tt := range tests {
		c, _ := f.Entries().At(i).Content()
		inline, ok := c.Inline()
		if c.Kind() != tt.kind || inline != tt.inline || ok != tt.hasIt {
			t.Fatalf("entry %d: expected %s %q %v, got %s %q %v", i, tt.kind, tt.inline, tt.hasIt, c.Kind(), inline, ok)
		}
	}
}

func TestReadSource(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>urn:e</id><title>t</title><updated>2024-01-01T00:00:00Z</updated>
    <source>
      <id>urn:origin</id>
      <title>Origin</title>
      <author><name>Origin Author</name></author>
    </source>
  </entry>
</feed>`

	f, err := atom.ReadFeedString(doc)
	if err != nil {
		t.Fatalf("expected source author to satisfy the author rule, got %v", err)
	}
	src, ok := f.Entries().At(0).Source()
	if !ok {
		t.Fatal("expected a source")
	}
	if id, _ := src.ID(); id.URI() != "urn:origin" {
		t.Fatalf("unexpected source id %q", id.URI())
	}
}

func TestReadStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want atom.Violation
	}{
		{"entry without id", `<feed xmlns="http://www.w3.org/2005/Atom"><author><name>a</name></author>
			<entry><title>t</title><updated>2024-01-01T00:00:00Z</updated></entry></feed>`, atom.MissingID},
		{"entry without author", `<feed xmlns="http://www.w3.org/2005/Atom">
			<entry><id>urn:x</id><title>t</title><updated>2024-01-01T00:00:00Z</updated></entry></feed>`, atom.MissingAuthor},
		{"link without href", `<feed xmlns="http://www.w3.org/2005/Atom"><link rel="self"/></feed>`, atom.MissingHref},
		{"author without name", `<feed xmlns="http://www.w3.org/2005/Atom"><author><email>a@b</email></author></feed>`, atom.MissingName},
		{"category without term", `<feed xmlns="http://www.w3.org/2005/Atom"><category label="x"/></feed>`, atom.MissingTerm},
		{"empty id", `<feed xmlns="http://www.w3.org/2005/Atom"><id> </id></feed>`, atom.MissingURI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := atom.ReadFeedString(tt.doc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReadStreamErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `<feed xmlns="http://www.w3.org/2005/Atom"><title>x</feed>`},
		{"truncated", `<feed xmlns="http://www.w3.org/2005/Atom"><title>x</title>`},
		{"wrong root", `<rss version="2.0"><channel/></rss>`},
		{"root outside namespace", `<feed><title>x</title></feed>`},
		{"empty", ``},
		{"trailing element", `<feed xmlns="http://www.w3.org/2005/Atom"></feed><feed xmlns="http://www.w3.org/2005/Atom"></feed>`},
		{"duplicate title", `<feed xmlns="http://www.w3.org/2005/Atom"><title>a</title><title>b</title></feed>`},
		{"stray text", `<feed xmlns="http://www.w3.org/2005/Atom">hello</feed>`},
		{"bad date", `<feed xmlns="http://www.w3.org/2005/Atom"><updated>yesterday</updated></feed>`},
		{"bad text type", `<feed xmlns="http://www.w3.org/2005/Atom"><title type="markdown">x</title></feed>`},
		{"xhtml without div", `<feed xmlns="http://www.w3.org/2005/Atom"><title type="xhtml">plain</title></feed>`},
		{"element in id", `<feed xmlns="http://www.w3.org/2005/Atom"><id><b>x</b></id></feed>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := atom.ReadFeedString(tt.doc)
			var se *atom.StreamError
			if !errors.As(err, &se) {
				t.Fatalf("expected StreamError, got %v", err)
			}
		})
	}
}

func TestReadFeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.atom")
	if err := os.WriteFile(path, []byte(sampleFeed), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := atom.ReadFeedFile(path)
	if err != nil {
		t.Fatalf("ReadFeedFile: %v", err)
	}
	if f.Entries().Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", f.Entries().Len())
	}

	if _, err := atom.ReadFeedFile(filepath.Join(t.TempDir(), "missing.atom")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestReadLatin1Document(t *testing.T) {
	doc := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Caf`), 0xe9)
	doc = append(doc, []byte(`</title></feed>`)...)

	f, err := atom.ReadFeedBytes(doc)
	if err != nil {
		t.Fatalf("ReadFeedBytes: %v", err)
	}
	if title, _ := f.Title(); title.Value() != "Café" {
		t.Fatalf("expected Café, got %q", title.Value())
	}
}
