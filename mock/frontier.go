package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of mdmirror.URLFrontier.
type URLFrontier struct {
	PushFn        func(target mdmirror.CrawlTarget) bool
	PopFn         func() (mdmirror.CrawlTarget, bool)
	LenFn         func() int
	SeenFn        func(url string) bool
	MarkVisitedFn func(url string)
	VisitedFn     func(url string) bool
}

func (f *URLFrontier) Push(target mdmirror.CrawlTarget) bool {
	return f.PushFn(target)
}

func (f *URLFrontier) Pop() (mdmirror.CrawlTarget, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

func (f *URLFrontier) MarkVisited(url string) {
	f.MarkVisitedFn(url)
}

func (f *URLFrontier) Visited(url string) bool {
	return f.VisitedFn(url)
}

var _ mdmirror.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of mdmirror.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ mdmirror.PageSource = (*PageSource)(nil)

// PageSource is a mock implementation of mdmirror.PageSource.
type PageSource struct {
	CrawlFn func(ctx context.Context, seed string) iter.Seq2[string, string]
}

func (s *PageSource) Crawl(ctx context.Context, seed string) iter.Seq2[string, string] {
	return s.CrawlFn(ctx, seed)
}
