// atomctl validates, formats, inspects and stores Atom feeds.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func usage() {
	fmt.Fprint(os.Stderr, `usage: atomctl <command> [flags] [args]

commands:
  validate SOURCE...          check that every source is a valid feed
  fmt [flags] SOURCE          rewrite a feed, optionally re-sorting entries
  inspect SOURCE              print a JSON summary of a feed
  put PATH SOURCE             store a feed under PATH
  get [-o FILE] PATH          print the feed stored under PATH
  rm PATH                     remove the feed stored under PATH
  ls                          list stored paths

A SOURCE is an http(s) URL or a file path holding Atom, RSS or JSON Feed.

environment:
  ATOMCTL_STORE          memory, sqlite3:PATH, postgres:DSN or s3://BUCKET/PREFIX (default sqlite3:atomctl.db)
  ATOMCTL_LOG_LEVEL      debug, info, warn or error (default info)
  ATOMCTL_FETCH_TIMEOUT  per-download timeout (default 15s)
  ATOMCTL_CONCURRENCY    sources loaded at once (default 4)
`)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "atomctl:", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = newApp(cfg, logger, os.Stdout).run(ctx, os.Args[1:])
	switch {
	case errors.Is(err, errUsage):
		usage()
		stop()
		os.Exit(2)
	case err != nil:
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
