// Package crawl provides breadth-first site traversal. It owns the URL
// frontier, scope and normalization rules, and the politeness limiter, and
// turns a seed URL into a lazy sequence of fetched pages.
package crawl

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.PageSource = (*Crawler)(nil)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the prefilter false positive rate.
	frontierFalsePositiveRate = 0.01
)

// Crawler walks a site breadth-first from a seed URL.
type Crawler struct {
	Fetcher mdmirror.Fetcher
	Links   mdmirror.LinkExtractor

	// Robots is consulted for the seed and every discovered link.
	// Nil allows everything.
	Robots mdmirror.RobotsPolicy

	// Limiter spaces out requests. Nil disables the politeness delay.
	Limiter mdmirror.DomainLimiter

	// Frontier is used for a single Crawl call. Nil creates a fresh one.
	Frontier mdmirror.URLFrontier

	Logger *slog.Logger

	UserAgent         string
	MaxDepth          int
	MaxPages          int
	IncludeSubdomains bool
	FetchTimeout      time.Duration

	stats Stats
}

// Stats counts crawl outcomes.
type Stats struct {
	Fetched int
	Failed  int
	Skipped int
}

// Stats returns the counters of the most recent crawl.
func (c *Crawler) Stats() Stats {
	return c.stats
}

// Crawl yields (url, html) for every successfully fetched in-scope page.
// The seed is fetched first and pages are produced in breadth-first order.
// Failures are logged and never retried. The sequence ends when the
// frontier is exhausted, the page limit is reached, ctx is canceled, or the
// consumer stops iterating.
func (c *Crawler) Crawl(ctx context.Context, seed string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		c.stats = Stats{}
		logger := c.logger()

		start, err := Normalize(seed)
		if err != nil {
			logger.Error("invalid seed", "url", seed, "err", err)
			return
		}
		scope, err := NewScope(start, c.IncludeSubdomains)
		if err != nil {
			logger.Error("invalid seed", "url", seed, "err", err)
			return
		}

		frontier := c.Frontier
		if frontier == nil {
			frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
		}

		if !c.allowed(ctx, start) {
			logger.Warn("seed disallowed by robots.txt", "url", start)
			frontier.MarkVisited(start)
			c.stats.Skipped++
			return
		}
		frontier.Push(mdmirror.CrawlTarget{URL: start, Depth: 0})

		attempts := 0
		for ctx.Err() == nil {
			target, ok := frontier.Pop()
			if !ok {
				return
			}
			if frontier.Visited(target.URL) {
				continue
			}
			if target.Depth > c.MaxDepth {
				frontier.MarkVisited(target.URL)
				c.stats.Skipped++
				continue
			}
			if c.MaxPages > 0 && attempts >= c.MaxPages {
				logger.Info("page limit reached", "limit", c.MaxPages, "pending", frontier.Len()+1)
				return
			}
			attempts++

			html, err := c.fetch(ctx, target.URL)
			frontier.MarkVisited(target.URL)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.stats.Failed++
				logger.Warn("fetch failed",
					"url", target.URL,
					"depth", target.Depth,
					"code", mdmirror.ErrorCode(err),
					"err", err,
				)
				continue
			}
			c.stats.Fetched++

			if target.Depth < c.MaxDepth {
				c.enqueueLinks(ctx, frontier, scope, target, html)
			}

			if !yield(target.URL, html) {
				return
			}
		}
	}
}

// fetch waits for the politeness limiter and retrieves one page.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if c.Limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", mdmirror.Errorf(mdmirror.EINVALID, "invalid URL %q", rawURL)
		}
		if err := c.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	if c.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
		defer cancel()
	}
	return c.Fetcher.Fetch(ctx, rawURL)
}

// enqueueLinks pushes every eligible link of a fetched page at depth+1.
func (c *Crawler) enqueueLinks(ctx context.Context, frontier mdmirror.URLFrontier, scope *Scope, target mdmirror.CrawlTarget, html string) {
	logger := c.logger()

	links, err := c.Links.ExtractLinks(html, target.URL)
	if err != nil {
		logger.Warn("link extraction failed", "url", target.URL, "err", err)
		return
	}

	for _, link := range links {
		normalized, err := Normalize(link)
		if err != nil {
			continue
		}
		if !scope.Contains(normalized) || HasSkippedExtension(normalized) {
			continue
		}
		if frontier.Seen(normalized) {
			continue
		}
		if !c.allowed(ctx, normalized) {
			logger.Debug("disallowed by robots.txt", "url", normalized)
			frontier.MarkVisited(normalized)
			c.stats.Skipped++
			continue
		}
		frontier.Push(mdmirror.CrawlTarget{URL: normalized, Depth: target.Depth + 1})
	}
}

// allowed evaluates robots.txt for the URL's origin.
func (c *Crawler) allowed(ctx context.Context, rawURL string) bool {
	if c.Robots == nil {
		return true
	}
	origin, err := Origin(rawURL)
	if err != nil {
		return true
	}
	return c.Robots.Evaluate(ctx, origin, c.UserAgent).Allowed(rawURL)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
