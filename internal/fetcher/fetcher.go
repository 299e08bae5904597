package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/raffaelramalhorosa/atomkit/atom"
	"github.com/raffaelramalhorosa/atomkit/internal/convert"
)

// ErrUnknownFormat is returned for documents that are not Atom, RSS or
// JSON Feed.
var ErrUnknownFormat = errors.New("unrecognized feed format")

const userAgent = "atomctl/1.0"

// Fetcher turns feed sources, URLs or file paths, into Atom feeds. RSS and
// JSON feeds are converted on the way in.
type Fetcher struct {
	client      *http.Client
	parser      *gofeed.Parser
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// New returns a Fetcher that gives each download at most timeout and loads
// at most concurrency sources at once.
func New(timeout time.Duration, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		client:      &http.Client{},
		parser:      gofeed.NewParser(),
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Result carries the outcome of loading a single source through a channel.
type Result struct {
	Source string
	Feed   *atom.Feed
	Err    error
}

// LoadAll loads every source, at most f.concurrency at a time, and returns
// the results in the order of sources. Failures are reported per source.
func (f *Fetcher) LoadAll(ctx context.Context, sources []string) []Result {
	if len(sources) == 0 {
		return nil
	}

	f.logger.Info("load starting", "sources", len(sources))

	type indexed struct {
		i   int
		res Result
	}
	results := make(chan indexed, len(sources))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			feed, err := f.Load(ctx, src)
			results <- indexed{i, Result{Source: src, Feed: feed, Err: err}}
			return nil
		})
	}

	// Close the channel once every goroutine finishes.
	go func() {
		g.Wait()
		close(results)
	}()

	out := make([]Result, len(sources))
	var failed int
	for r := range results {
		out[r.i] = r.res
		if r.res.Err != nil {
			failed++
			f.logger.Error("load failed", "source", r.res.Source, "error", r.res.Err)
			continue
		}
		f.logger.Info("source loaded",
			"source", r.res.Source,
			"entries", r.res.Feed.Entries().Len(),
		)
	}

	f.logger.Info("load complete", "sources", len(sources), "failed", failed)
	return out
}

// Load reads a single source and returns it as an Atom feed.
func (f *Fetcher) Load(ctx context.Context, src string) (*atom.Feed, error) {
	body, err := f.read(ctx, src)
	if err != nil {
		return nil, err
	}
	return f.decode(src, body)
}

func (f *Fetcher) read(ctx context.Context, src string) ([]byte, error) {
	if !isURL(src) {
		return os.ReadFile(src)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/atom+xml, application/rss+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %w", src, gofeed.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	return body, nil
}

// decode dispatches on the detected dialect. Atom documents go through the
// codec directly so extensions and text kinds survive.
func (f *Fetcher) decode(src string, body []byte) (*atom.Feed, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeAtom:
		feed, err := atom.ReadFeedBytes(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src, err)
		}
		return feed, nil

	case gofeed.FeedTypeRSS, gofeed.FeedTypeJSON:
		parsed, err := f.parser.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src, err)
		}
		feed, err := convert.FromGofeed(parsed, f.now())
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", src, err)
		}
		return feed, nil
	}
	return nil, fmt.Errorf("parse %s: %w", src, ErrUnknownFormat)
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
