package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type config struct {
	store        string
	logLevel     slog.Level
	fetchTimeout time.Duration
	concurrency  int
}

func loadConfig() (config, error) {
	cfg := config{store: envOrDefault("ATOMCTL_STORE", "sqlite3:atomctl.db")}

	if err := cfg.logLevel.UnmarshalText([]byte(envOrDefault("ATOMCTL_LOG_LEVEL", "info"))); err != nil {
		return config{}, fmt.Errorf("ATOMCTL_LOG_LEVEL: %w", err)
	}

	timeout, err := time.ParseDuration(envOrDefault("ATOMCTL_FETCH_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		return config{}, fmt.Errorf("ATOMCTL_FETCH_TIMEOUT: invalid duration")
	}
	cfg.fetchTimeout = timeout

	n, err := strconv.Atoi(envOrDefault("ATOMCTL_CONCURRENCY", "4"))
	if err != nil || n < 1 {
		return config{}, fmt.Errorf("ATOMCTL_CONCURRENCY: must be a positive integer")
	}
	cfg.concurrency = n

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
