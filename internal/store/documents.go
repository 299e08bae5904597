package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/raffaelramalhorosa/atomkit/atom"
)

// Documents is the path → feed index. Feeds are stored serialized, so any
// Backend can hold them.
type Documents struct {
	backend Backend
	logger  *slog.Logger
}

// NewDocuments returns an index over b.
func NewDocuments(b Backend, logger *slog.Logger) *Documents {
	return &Documents{backend: b, logger: logger}
}

// cleanPath turns p into the key used by the backend: slash separated,
// without leading slash, dot or dot-dot elements.
func cleanPath(p string) (string, error) {
	p = path.Clean("/" + strings.TrimSpace(p))[1:]
	if p == "" {
		return "", fmt.Errorf("empty document path")
	}
	return p, nil
}

// Save serializes f and stores it under p, replacing any earlier document.
func (d *Documents) Save(ctx context.Context, p string, f *atom.Feed) error {
	key, err := cleanPath(p)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := atom.WriteFeed(&buf, f, atom.WriteOptions{Indent: "  ", Location: time.UTC}); err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}
	if err := d.backend.Put(ctx, key, buf.Bytes()); err != nil {
		return err
	}

	d.logger.Info("document saved",
		"path", key,
		"entries", f.Entries().Len(),
		"bytes", buf.Len(),
	)
	return nil
}

// Load reads back the feed stored under p. A missing document yields an
// error matching ErrNotFound.
func (d *Documents) Load(ctx context.Context, p string) (*atom.Feed, error) {
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	body, err := d.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	f, err := atom.ReadFeedBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

// Remove deletes the document stored under p.
func (d *Documents) Remove(ctx context.Context, p string) error {
	key, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := d.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	d.logger.Info("document removed", "path", key)
	return nil
}

// Paths lists every stored document path.
func (d *Documents) Paths(ctx context.Context) ([]string, error) {
	return d.backend.List(ctx)
}
