// Package slog provides logging decorators for domcrawl services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domcrawl"
)

// Ensure LoggingFetcher implements domcrawl.Fetcher.
var _ domcrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   domcrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next domcrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
