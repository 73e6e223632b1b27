package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdmirror"
)

// Ensure LoggingPageWriter implements mdmirror.PageWriter.
var _ mdmirror.PageWriter = (*LoggingPageWriter)(nil)

// LoggingPageWriter wraps a PageWriter with logging.
type LoggingPageWriter struct {
	next   mdmirror.PageWriter
	logger *slog.Logger
}

// NewLoggingPageWriter creates a new LoggingPageWriter.
func NewLoggingPageWriter(next mdmirror.PageWriter, logger *slog.Logger) *LoggingPageWriter {
	return &LoggingPageWriter{next: next, logger: logger}
}

// WritePage delegates to the wrapped writer and logs the operation.
func (w *LoggingPageWriter) WritePage(ctx context.Context, relPath string, content string) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write",
			"path", relPath,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WritePage(ctx, relPath, content)
}
