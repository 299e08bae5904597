package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/raffaelramalhorosa/atomkit/atom"
	"github.com/raffaelramalhorosa/atomkit/internal/fetcher"
	"github.com/raffaelramalhorosa/atomkit/internal/store"
)

var errUsage = errors.New("usage")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app holds dependencies shared by the commands.
type app struct {
	cfg     config
	logger  *slog.Logger
	fetcher *fetcher.Fetcher
	stdout  io.Writer
}

func newApp(cfg config, logger *slog.Logger, stdout io.Writer) *app {
	return &app{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher.New(cfg.fetchTimeout, cfg.concurrency, logger),
		stdout:  stdout,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "validate":
		return a.validate(ctx, args)
	case "fmt":
		return a.format(ctx, args)
	case "inspect":
		return a.inspect(ctx, args)
	case "put":
		return a.put(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "rm":
		return a.remove(ctx, args)
	case "ls":
		return a.list(ctx, args)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

// parse parses flags for a command and checks the number of positional
// arguments, where maxArgs < 0 means no upper bound.
func parse(fs *flag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	rest := fs.Args()
	if len(rest) < minArgs || (maxArgs >= 0 && len(rest) > maxArgs) {
		return nil, errUsage
	}
	return rest, nil
}

// documents opens the configured store. The returned func releases it.
func (a *app) documents(ctx context.Context) (*store.Documents, func(), error) {
	backend, err := store.Open(ctx, a.cfg.store)
	if err != nil {
		return nil, nil, err
	}
	return store.NewDocuments(backend, a.logger), func() { backend.Close() }, nil
}

func (a *app) validate(ctx context.Context, args []string) error {
	sources, err := parse(flag.NewFlagSet("validate", flag.ContinueOnError), args, 1, -1)
	if err != nil {
		return err
	}

	var failed int
	for _, res := range a.fetcher.LoadAll(ctx, sources) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(a.stdout, "FAIL\t%s\t%v\n", res.Source, res.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "ok\t%s\t%d entries\n", res.Source, res.Feed.Entries().Len())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources are invalid", failed, len(sources))
	}
	return nil
}

func (a *app) format(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	sortBy := fs.String("sort", "", "re-sort entries by updated or title")
	desc := fs.Bool("desc", false, "sort in descending order")
	opts := writeFlags(fs)
	rest, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	field, err := sortField(*sortBy)
	if err != nil {
		return err
	}
	dir := atom.Ascending
	if *desc {
		dir = atom.Descending
	}

	f, err := a.fetcher.Load(ctx, rest[0])
	if err != nil {
		return err
	}
	if *sortBy != "" || *desc {
		f = atom.SortEntries(f, dir, field)
	}
	return a.write(f, opts)
}

func sortField(name string) (atom.SortField, error) {
	switch name {
	case "", "updated":
		return atom.ByUpdated, nil
	case "title":
		return atom.ByTitle, nil
	}
	return 0, fmt.Errorf("unknown sort field %q: %w", name, errUsage)
}

type outputFlags struct {
	out        *string
	encoding   *string
	xmlVersion *string
	indent     *string
	utc        *bool
}

func writeFlags(fs *flag.FlagSet) outputFlags {
	return outputFlags{
		out:        fs.String("o", "", "write to `file` instead of standard output"),
		encoding:   fs.String("encoding", "UTF-8", "output character encoding"),
		xmlVersion: fs.String("xml-version", "1.0", "XML version in the declaration"),
		indent:     fs.String("indent", "  ", "indentation, empty for none"),
		utc:        fs.Bool("utc", false, "render dates in UTC instead of local time"),
	}
}

func (a *app) write(f *atom.Feed, o outputFlags) error {
	opts := atom.WriteOptions{
		Encoding:   *o.encoding,
		XMLVersion: *o.xmlVersion,
		Indent:     *o.indent,
	}
	if *o.utc {
		opts.Location = time.UTC
	}
	if *o.out != "" {
		return atom.WriteFeedFile(*o.out, f, opts)
	}
	if err := atom.WriteFeed(a.stdout, f, opts); err != nil {
		return err
	}
	_, err := io.WriteString(a.stdout, "\n")
	return err
}

func (a *app) put(ctx context.Context, args []string) error {
	rest, err := parse(flag.NewFlagSet("put", flag.ContinueOnError), args, 2, 2)
	if err != nil {
		return err
	}
	f, err := a.fetcher.Load(ctx, rest[1])
	if err != nil {
		return err
	}
	docs, done, err := a.documents(ctx)
	if err != nil {
		return err
	}
	defer done()
	return docs.Save(ctx, rest[0], f)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	opts := writeFlags(fs)
	rest, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	docs, done, err := a.documents(ctx)
	if err != nil {
		return err
	}
	defer done()

	f, err := docs.Load(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.write(f, opts)
}

func (a *app) remove(ctx context.Context, args []string) error {
	rest, err := parse(flag.NewFlagSet("rm", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	docs, done, err := a.documents(ctx)
	if err != nil {
		return err
	}
	defer done()
	return docs.Remove(ctx, rest[0])
}

func (a *app) list(ctx context.Context, args []string) error {
	if _, err := parse(flag.NewFlagSet("ls", flag.ContinueOnError), args, 0, 0); err != nil {
		return err
	}
	docs, done, err := a.documents(ctx)
	if err != nil {
		return err
	}
	defer done()

	paths, err := docs.Paths(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(a.stdout, p)
	}
	return nil
}

func (a *app) inspect(ctx context.Context, args []string) error {
	rest, err := parse(flag.NewFlagSet("inspect", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	f, err := a.fetcher.Load(ctx, rest[0])
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, summarize(f))
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
