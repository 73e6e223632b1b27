// Package http provides net/http implementations of mdmirror.Fetcher and
// mdmirror.AssetFetcher for static sites.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/mdmirror"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// MaxPageSize caps the number of bytes read from a page body.
const MaxPageSize = 10 << 20

// Ensure Fetcher implements the fetch interfaces at compile time.
var (
	_ mdmirror.Fetcher      = (*Fetcher)(nil)
	_ mdmirror.AssetFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves pages and assets using plain HTTP GET requests.
// It does not execute JavaScript and never retries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: mdmirror.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves an HTML page and returns its body decoded to UTF-8.
// Non-2xx responses fail with ENETWORK and responses whose Content-Type is
// not HTML fail with ECONTENTTYPE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", mdmirror.Errorf(mdmirror.ECONTENTTYPE, "unsupported content type %q for %s", contentType, url)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, MaxPageSize), contentType)
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.EPARSE, "decode %s: %v", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.ENETWORK, "read %s: %v", url, err)
	}

	return string(body), nil
}

// FetchAsset starts a download and returns the streaming body.
// The caller must close Asset.Body.
func (f *Fetcher) FetchAsset(ctx context.Context, url string) (*mdmirror.Asset, error) {
	resp, err := f.get(ctx, url, "image/*,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	return &mdmirror.Asset{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// get performs the request and rejects non-2xx responses.
func (f *Fetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.ENETWORK, "GET %s: %v", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, mdmirror.Errorf(mdmirror.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	}
	return resp, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
