package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/bloom"
)

// Compile-time interface verification.
var _ mdmirror.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier with set-based deduplication.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu      sync.Mutex
	queued  *bloom.Set
	visited *bloom.Set
	queue   []mdmirror.CrawlTarget
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom prefilter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		queued:  bloom.NewSet(n, fpRate),
		visited: bloom.NewSet(n, fpRate),
	}
}

// Push appends a target to the queue.
// Returns false if the URL has already been queued or visited.
// URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(target mdmirror.CrawlTarget) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	target.URL = stripFragment(target.URL)
	if f.visited.Contains(target.URL) || !f.queued.Add(target.URL) {
		return false
	}
	f.queue = append(f.queue, target)
	return true
}

// Pop removes the oldest target from the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (mdmirror.CrawlTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return mdmirror.CrawlTarget{}, false
	}
	target := f.queue[0]
	f.queue[0] = mdmirror.CrawlTarget{}
	f.queue = f.queue[1:]
	return target, true
}

// Len returns the number of pending targets.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or visited.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(rawURL)
	return f.queued.Contains(url) || f.visited.Contains(url)
}

// MarkVisited records the URL as fetched or explicitly skipped.
func (f *Frontier) MarkVisited(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited.Add(stripFragment(rawURL))
}

// Visited returns true if the URL has been marked visited.
func (f *Frontier) Visited(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Contains(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
