package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domcrawl"
)

// Ensure LoggingWriter implements domcrawl.ResultWriter.
var _ domcrawl.ResultWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a ResultWriter and logs each write.
type LoggingWriter struct {
	next        domcrawl.ResultWriter
	destination string
	logger      *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter. destination names where
// results end up, e.g. a file path.
func NewLoggingWriter(next domcrawl.ResultWriter, destination string, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, destination: destination, logger: logger}
}

// WriteResult delegates to the wrapped writer.
func (w *LoggingWriter) WriteResult(ctx context.Context, result *domcrawl.Result) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write result",
			"destination", w.destination,
			"domains", result.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteResult(ctx, result)
}
