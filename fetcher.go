package mdmirror

import (
	"context"
	"io"
)

// Fetcher retrieves HTML pages.
type Fetcher interface {
	// Fetch performs a GET request and returns the decoded HTML body.
	// Non-success statuses fail with ENETWORK and non-HTML responses
	// fail with ECONTENTTYPE. Fetch never retries.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Asset is a downloaded resource body. The caller must close Body.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
}

// AssetFetcher downloads binary resources such as images.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, url string) (*Asset, error)
}
