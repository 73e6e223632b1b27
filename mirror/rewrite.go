package mirror

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/fwojciec/mdmirror"
	"golang.org/x/sync/errgroup"
)

// DefaultAssetConcurrency is the number of images resolved in parallel per page.
const DefaultAssetConcurrency = mdmirror.DefaultAssetConcurrency

// imagePattern matches ![alt](src) and ![alt](src "title"). Group 1 is the
// alt text, group 2 the source, group 3 the optional title with its
// leading whitespace.
var imagePattern = regexp.MustCompile(`!\[((?:\\.|[^\]\\])*)\]\(\s*(<[^>\n]*>|[^\s)]+)(\s+"(?:\\.|[^"\\])*")?\s*\)`)

// Rewriter points image references in Markdown at local asset copies.
type Rewriter struct {
	assets      mdmirror.AssetResolver
	concurrency int
}

// NewRewriter creates a Rewriter resolving up to concurrency images at once.
func NewRewriter(assets mdmirror.AssetResolver, concurrency int) *Rewriter {
	if concurrency <= 0 {
		concurrency = DefaultAssetConcurrency
	}
	return &Rewriter{assets: assets, concurrency: concurrency}
}

// Rewrite resolves every image in markdown against pageURL and replaces
// its source with prefix plus the local asset path. Images that cannot be
// localized keep their absolute remote URL. It returns the rewritten
// Markdown and the number of localized images.
func (w *Rewriter) Rewrite(ctx context.Context, markdown, pageURL, prefix string) (string, int) {
	matches := imagePattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown, 0
	}

	base, _ := url.Parse(pageURL)
	identities := make([]string, len(matches))
	for i, m := range matches {
		identities[i] = absoluteSource(base, markdown[m[4]:m[5]])
	}

	resolved := w.resolveAll(ctx, identities)

	var b strings.Builder
	var localized int
	last := 0
	for i, m := range matches {
		id := identities[i]
		src := id
		if local, ok := resolved[id]; ok && local != id {
			src = prefix + local
			localized++
		}
		b.WriteString(markdown[last:m[4]])
		b.WriteString(src)
		last = m[5]
	}
	b.WriteString(markdown[last:])
	return b.String(), localized
}

// resolveAll resolves each distinct identity once, in parallel.
func (w *Rewriter) resolveAll(ctx context.Context, identities []string) map[string]string {
	var mu sync.Mutex
	resolved := make(map[string]string, len(identities))

	var g errgroup.Group
	g.SetLimit(w.concurrency)
	seen := make(map[string]bool, len(identities))
	for _, id := range identities {
		if seen[id] || !resolvable(id) {
			continue
		}
		seen[id] = true
		g.Go(func() error {
			local := w.assets.ResolveImage(ctx, id)
			mu.Lock()
			resolved[id] = local
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}

// absoluteSource resolves src against the page URL. Sources that are
// already absolute, embedded, or unparsable are returned as written.
func absoluteSource(base *url.URL, src string) string {
	src = strings.TrimSuffix(strings.TrimPrefix(src, "<"), ">")
	if base == nil || strings.HasPrefix(strings.ToLower(src), "data:") {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String()
}

func resolvable(identity string) bool {
	lower := strings.ToLower(identity)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}
