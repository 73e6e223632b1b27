package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/mdmirror"
	"golang.org/x/sync/singleflight"
)

// DefaultAssetTimeout bounds a single image download.
const DefaultAssetTimeout = 30 * time.Second

// imageExtensions are looked for in a URL when its file name has no extension.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp"}

var (
	unsafeNameChars = regexp.MustCompile(`[^\w\-.]`)
	unsafeExtChars  = regexp.MustCompile(`[^\w\-]`)
)

var _ mdmirror.AssetResolver = (*Resolver)(nil)

// Resolver downloads images into the asset store and remembers where each
// one was saved. Every identity is fetched at most once per run; concurrent
// requests for the same identity share a single download.
type Resolver struct {
	fetcher mdmirror.AssetFetcher
	store   mdmirror.AssetStore
	logger  *slog.Logger
	timeout time.Duration

	group singleflight.Group

	mu       sync.Mutex
	cache    map[string]string
	reserved map[string]bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAssetTimeout sets the timeout for one image download.
func WithAssetTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithResolverLogger sets the logger for download failures.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver that downloads with fetcher into store.
func NewResolver(fetcher mdmirror.AssetFetcher, store mdmirror.AssetStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher:  fetcher,
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		timeout:  DefaultAssetTimeout,
		cache:    make(map[string]string),
		reserved: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveImage returns "assets/<name>" for identity, downloading or decoding
// it on first use. Failures return identity unchanged and are not cached,
// so a later page may try again.
func (r *Resolver) ResolveImage(ctx context.Context, identity string) string {
	if strings.HasPrefix(strings.ToLower(identity), "data:") {
		return r.resolveData(ctx, identity)
	}
	p := r.resolve(identity, func() (string, error) {
		return r.download(ctx, identity)
	})
	if p == "" {
		return identity
	}
	return p
}

// resolve returns the cached path for key or computes it once via load.
func (r *Resolver) resolve(key string, load func() (string, error)) string {
	if p, ok := r.cached(key); ok {
		return p
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		if p, ok := r.cached(key); ok {
			return p, nil
		}
		name, err := load()
		if err != nil {
			return "", err
		}
		p := mdmirror.AssetDir + "/" + name
		r.mu.Lock()
		r.cache[key] = p
		r.mu.Unlock()
		return p, nil
	})
	if p, ok := v.(string); ok && p != "" {
		return p
	}
	return ""
}

func (r *Resolver) cached(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.cache[key]
	return p, ok
}

// download fetches a remote image and stores it under a unique name.
func (r *Resolver) download(ctx context.Context, rawURL string) (name string, err error) {
	defer func() {
		if err != nil {
			r.logger.Warn("image download failed", "url", rawURL, "err", err)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	asset, err := r.fetcher.FetchAsset(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer asset.Body.Close()

	if !isImage(asset.ContentType) {
		r.logger.Warn("asset is not an image", "url", rawURL, "content_type", asset.ContentType)
	}

	name = r.reserve(AssetName(rawURL))
	n, err := r.store.Create(ctx, name, asset.Body)
	if err != nil {
		r.release(name)
		return "", mdmirror.Errorf(mdmirror.EASSET, "save %s: %v", rawURL, err)
	}
	r.logger.Debug("image saved", "url", rawURL, "name", name, "bytes", n)
	return name, nil
}

// resolveData stores an embedded image, named by the hash of its bytes.
func (r *Resolver) resolveData(ctx context.Context, uri string) string {
	data, ext, err := decodeDataURI(uri)
	if err != nil {
		r.logger.Warn("invalid data URI", "err", err)
		return uri
	}

	name := fmt.Sprintf("%016x%s", xxhash.Sum64(data), ext)
	p := r.resolve("data:"+name, func() (string, error) {
		if r.store.Exists(name) {
			return name, nil
		}
		if _, err := r.store.Create(ctx, name, bytes.NewReader(data)); err != nil {
			r.logger.Warn("embedded image save failed", "name", name, "err", err)
			return "", err
		}
		return name, nil
	})
	if p == "" {
		return uri
	}
	return p
}

// reserve returns name, or name with a numeric suffix when name is already
// taken on disk or by an earlier download in this run.
func (r *Resolver) reserve(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; r.reserved[candidate] || r.store.Exists(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	r.reserved[candidate] = true
	return candidate
}

func (r *Resolver) release(name string) {
	r.mu.Lock()
	delete(r.reserved, name)
	r.mu.Unlock()
}

// AssetName derives a file name for a remote image: the unescaped base name
// of the URL path, with an extension guessed from the URL when missing and
// a hash of the URL when the path has no name. Unsafe characters become "_".
func AssetName(rawURL string) string {
	var base string
	if u, err := url.Parse(rawURL); err == nil {
		base = path.Base(u.Path)
	}
	if base == "/" || base == "." {
		base = ""
	}

	ext := path.Ext(base)
	if ext == "" {
		ext = guessExtension(rawURL)
	}
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = fmt.Sprintf("%016x", xxhash.Sum64String(rawURL))
	}
	return unsafeNameChars.ReplaceAllString(stem+ext, "_")
}

func guessExtension(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return ext
		}
	}
	return ".jpg"
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

// decodeDataURI returns the payload and file extension of an image data URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, "", mdmirror.Errorf(mdmirror.EASSET, "data URI without payload")
	}

	params := strings.Split(header, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	subtype, ok := strings.CutPrefix(mediaType, "image/")
	if !ok || subtype == "" {
		return nil, "", mdmirror.Errorf(mdmirror.EASSET, "data URI is not an image: %q", mediaType)
	}

	var data []byte
	var err error
	if strings.EqualFold(params[len(params)-1], "base64") {
		payload = strings.Join(strings.Fields(payload), "")
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, "", mdmirror.Errorf(mdmirror.EASSET, "decode data URI: %v", err)
	}
	if len(data) == 0 {
		return nil, "", mdmirror.Errorf(mdmirror.EASSET, "empty data URI")
	}

	subtype, _, _ = strings.Cut(subtype, "+")
	return data, "." + unsafeExtChars.ReplaceAllString(subtype, "_"), nil
}
