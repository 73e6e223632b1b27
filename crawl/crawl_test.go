package crawl_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/crawl"
	"github.com/fwojciec/mdmirror/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite serves pages from a map of URL to outgoing links and records
// every fetch.
type fakeSite struct {
	mu      sync.Mutex
	links   map[string][]string
	fetched []string
}

func newFakeSite(links map[string][]string) *fakeSite {
	return &fakeSite{links: links}
}

func (s *fakeSite) crawler(maxDepth int) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				s.mu.Lock()
				s.fetched = append(s.fetched, url)
				s.mu.Unlock()
				if _, ok := s.links[url]; !ok {
					return "", mdmirror.Errorf(mdmirror.ENETWORK, "HTTP 404 for %s", url)
				}
				return "<html>" + url + "</html>", nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(_ string, baseURL string) ([]string, error) {
				return s.links[baseURL], nil
			},
		},
		MaxDepth: maxDepth,
	}
}

func (s *fakeSite) fetchCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.fetched {
		if u == url {
			n++
		}
	}
	return n
}

func collect(t *testing.T, c *crawl.Crawler, seed string) []string {
	t.Helper()

	var urls []string
	for url, html := range c.Crawl(context.Background(), seed) {
		require.True(t, strings.Contains(html, url))
		urls = append(urls, url)
	}
	return urls
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("yields seed first then breadth-first order", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":   {"https://example.com/a", "https://example.com/b"},
			"https://example.com/a":  {"https://example.com/a1"},
			"https://example.com/b":  {"https://example.com/b1"},
			"https://example.com/a1": nil,
			"https://example.com/b1": nil,
		})

		got := collect(t, site.crawler(5), "https://example.com")

		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a1",
			"https://example.com/b1",
		}, got)
	})

	t.Run("never fetches beyond max depth", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/1"},
			"https://example.com/1": {"https://example.com/2"},
			"https://example.com/2": {"https://example.com/3"},
			"https://example.com/3": nil,
		})

		got := collect(t, site.crawler(2), "https://example.com/")

		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/1",
			"https://example.com/2",
		}, got)
		assert.Zero(t, site.fetchCount("https://example.com/3"))
	})

	t.Run("max depth zero fetches only the seed", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})

		got := collect(t, site.crawler(0), "https://example.com/")

		assert.Equal(t, []string{"https://example.com/"}, got)
	})

	t.Run("fetches each URL exactly once despite cycles and fragments", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/": {
				"https://example.com/a",
				"https://example.com/a#top",
				"https://EXAMPLE.com:443/a",
				"https://example.com/",
			},
			"https://example.com/a": {"https://example.com/", "https://example.com/a"},
		})

		got := collect(t, site.crawler(5), "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://example.com/a"}, got)
		assert.Equal(t, 1, site.fetchCount("https://example.com/"))
		assert.Equal(t, 1, site.fetchCount("https://example.com/a"))
	})

	t.Run("repeated crawls of the same site yield the same set", func(t *testing.T) {
		t.Parallel()

		links := map[string][]string{
			"https://example.com/":  {"https://example.com/a", "https://example.com/b"},
			"https://example.com/a": {"https://example.com/b", "https://example.com/c"},
			"https://example.com/b": {"https://example.com/a"},
			"https://example.com/c": nil,
		}

		first := collect(t, newFakeSite(links).crawler(5), "https://example.com/")
		second := collect(t, newFakeSite(links).crawler(5), "https://example.com/")

		assert.ElementsMatch(t, first, second)
		assert.Len(t, first, 4)
	})

	t.Run("never enqueues other hosts or skipped extensions", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/": {
				"https://other.com/page",
				"https://sub.example.com/page",
				"https://example.com/manual.pdf",
				"https://example.com/logo.PNG",
				"mailto:someone@example.com",
				"https://example.com/ok",
			},
			"https://example.com/ok": nil,
		})

		got := collect(t, site.crawler(5), "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://example.com/ok"}, got)
		assert.Len(t, site.fetched, 2)
	})

	t.Run("failed fetches are not yielded and not retried", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":   {"https://example.com/missing", "https://example.com/ok"},
			"https://example.com/ok": {"https://example.com/missing"},
		})
		c := site.crawler(5)

		got := collect(t, c, "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://example.com/ok"}, got)
		assert.Equal(t, 1, site.fetchCount("https://example.com/missing"))
		assert.Equal(t, crawl.Stats{Fetched: 2, Failed: 1}, c.Stats())
	})

	t.Run("skips links disallowed by robots.txt", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":          {"https://example.com/private/x", "https://example.com/public"},
			"https://example.com/public":    nil,
			"https://example.com/private/x": nil,
		})
		var evaluated []string
		c := site.crawler(5)
		c.UserAgent = "test-bot"
		c.Robots = &mock.RobotsPolicy{
			EvaluateFn: func(_ context.Context, origin, userAgent string) mdmirror.RobotsRules {
				evaluated = append(evaluated, origin+" "+userAgent)
				return &mock.RobotsRules{
					AllowedFn: func(rawURL string) bool {
						return !strings.Contains(rawURL, "/private/")
					},
				}
			},
		}

		got := collect(t, c, "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://example.com/public"}, got)
		assert.Zero(t, site.fetchCount("https://example.com/private/x"))
		require.NotEmpty(t, evaluated)
		assert.Equal(t, "https://example.com test-bot", evaluated[0])
	})

	t.Run("disallowed seed ends the crawl", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{"https://example.com/": nil})
		c := site.crawler(5)
		c.Robots = &mock.RobotsPolicy{
			EvaluateFn: func(context.Context, string, string) mdmirror.RobotsRules {
				return &mock.RobotsRules{AllowedFn: func(string) bool { return false }}
			},
		}

		got := collect(t, c, "https://example.com/")

		assert.Empty(t, got)
		assert.Empty(t, site.fetched)
		assert.Equal(t, 1, c.Stats().Skipped)
	})

	t.Run("stops when the consumer breaks", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})

		for range site.crawler(5).Crawl(context.Background(), "https://example.com/") {
			break
		}

		assert.Equal(t, []string{"https://example.com/"}, site.fetched)
	})

	t.Run("respects page limit", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a", "https://example.com/b"},
			"https://example.com/a": nil,
			"https://example.com/b": nil,
		})
		c := site.crawler(5)
		c.MaxPages = 2

		got := collect(t, c, "https://example.com/")

		assert.Len(t, got, 2)
		assert.Len(t, site.fetched, 2)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var got []string
		for url := range site.crawler(5).Crawl(ctx, "https://example.com/") {
			got = append(got, url)
			cancel()
		}

		assert.Equal(t, []string{"https://example.com/"}, got)
	})

	t.Run("waits on the limiter with the page host", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})
		var domains []string
		c := site.crawler(5)
		c.Limiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}

		collect(t, c, "https://example.com/")

		assert.Equal(t, []string{"example.com", "example.com"}, domains)
	})

	t.Run("slow consumer still gets the full delay before each fetch", func(t *testing.T) {
		t.Parallel()

		const delay = 100 * time.Millisecond
		site := newFakeSite(map[string][]string{
			"https://example.com/":  {"https://example.com/a"},
			"https://example.com/a": nil,
		})
		var fetchedAt []time.Time
		c := site.crawler(5)
		fetch := c.Fetcher
		c.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetchedAt = append(fetchedAt, time.Now())
				return fetch.Fetch(ctx, url)
			},
		}
		c.Limiter = crawl.NewDomainLimiter(delay)

		start := time.Now()
		var handedBack []time.Time
		for range c.Crawl(context.Background(), "https://example.com/") {
			time.Sleep(2 * delay)
			handedBack = append(handedBack, time.Now())
		}

		require.Len(t, fetchedAt, 2)
		assert.GreaterOrEqual(t, fetchedAt[0].Sub(start), delay)
		assert.GreaterOrEqual(t, fetchedAt[1].Sub(handedBack[0]), delay)
	})

	t.Run("follows subdomains when enabled", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string][]string{
			"https://example.com/":          {"https://docs.example.com/guide", "https://other.com/"},
			"https://docs.example.com/guide": nil,
		})
		c := site.crawler(5)
		c.IncludeSubdomains = true

		got := collect(t, c, "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://docs.example.com/guide"}, got)
	})

	t.Run("invalid seed yields nothing", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(nil)

		got := collect(t, site.crawler(5), "ftp://example.com/")

		assert.Empty(t, got)
		assert.Empty(t, site.fetched)
	})
}
