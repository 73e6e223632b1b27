// Package slog provides log/slog decorators for the mirror's network and
// storage services, plus construction of the process logger.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/mdmirror"
)

// Ensure LoggingFetcher implements mdmirror.Fetcher.
var _ mdmirror.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   mdmirror.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next mdmirror.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
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

// Ensure LoggingAssetFetcher implements mdmirror.AssetFetcher.
var _ mdmirror.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with logging. Successful
// downloads are logged when the body is closed, so the entry carries the
// number of bytes actually streamed.
type LoggingAssetFetcher struct {
	next   mdmirror.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next mdmirror.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// FetchAsset delegates to the wrapped fetcher and logs the download.
func (f *LoggingAssetFetcher) FetchAsset(ctx context.Context, url string) (*mdmirror.Asset, error) {
	begin := time.Now()
	asset, err := f.next.FetchAsset(ctx, url)
	if err != nil {
		f.logger.Info("fetch asset",
			"url", url,
			"bytes", 0,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}

	asset.Body = &loggingBody{
		ReadCloser: asset.Body,
		done: func(n int64, readErr error) {
			f.logger.Info("fetch asset",
				"url", url,
				"content_type", asset.ContentType,
				"bytes", n,
				"duration", time.Since(begin),
				"err", readErr,
			)
		},
	}
	return asset, nil
}

// loggingBody counts bytes read and reports them once on Close.
type loggingBody struct {
	io.ReadCloser
	n      int64
	err    error
	done   func(n int64, err error)
	closed bool
}

func (b *loggingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	if err != nil && err != io.EOF {
		b.err = err
	}
	return n, err
}

func (b *loggingBody) Close() error {
	err := b.ReadCloser.Close()
	if !b.closed {
		b.closed = true
		b.done(b.n, b.err)
	}
	return err
}
