package mdmirror

import (
	"context"
	"iter"
)

// CrawlTarget is a URL scheduled for fetching together with its link distance
// from the seed. The seed has depth 0.
type CrawlTarget struct {
	URL   string
	Depth int
}

// URLFrontier manages the FIFO crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a target to the back of the queue.
	// Returns false if the URL has already been queued or visited.
	Push(target CrawlTarget) bool

	// Pop removes and returns the head of the queue.
	// Returns false if the frontier is empty.
	Pop() (CrawlTarget, bool)

	// Len returns the number of pending targets.
	Len() int

	// Seen returns true if the URL has been queued or visited.
	Seen(url string) bool

	// MarkVisited records url as fetched or explicitly skipped.
	MarkVisited(url string)

	// Visited returns true if MarkVisited was called for url.
	Visited(url string) bool
}

// DomainLimiter provides per-domain politeness delays.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// PageSource produces fetched pages in crawl order.
type PageSource interface {
	// Crawl yields (url, html) pairs lazily, starting from seed.
	// Breaking out of the loop stops the crawl.
	Crawl(ctx context.Context, seed string) iter.Seq2[string, string]
}
