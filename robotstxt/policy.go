// Package robotstxt implements mdmirror.RobotsPolicy on top of
// github.com/temoto/robotstxt. Rules are fetched once per origin and user
// agent, and every failure degrades to allowing all URLs.
package robotstxt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/mdmirror"
	"github.com/temoto/robotstxt"
)

// DefaultTimeout bounds the robots.txt request.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps the robots.txt body that is parsed.
const maxBodySize = 512 << 10

var _ mdmirror.RobotsPolicy = (*Policy)(nil)

// Policy fetches and caches robots.txt rule sets.
// It is safe for concurrent use by multiple goroutines.
type Policy struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once  sync.Once
	rules mdmirror.RobotsRules
}

// Option configures a Policy.
type Option func(*Policy)

// WithTimeout sets the timeout for robots.txt requests.
func WithTimeout(d time.Duration) Option {
	return func(p *Policy) {
		p.timeout = d
	}
}

// WithHTTPClient sets the client used for robots.txt requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Policy) {
		p.client = c
	}
}

// WithLogger sets the logger that receives fail-open warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = l
	}
}

// NewPolicy creates a new Policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Evaluate returns the rules of origin for userAgent. The first caller for
// a given origin and agent performs the fetch; concurrent callers wait for
// it and later callers reuse the cached result.
func (p *Policy) Evaluate(ctx context.Context, origin, userAgent string) mdmirror.RobotsRules {
	key := origin + "\x00" + userAgent

	p.mu.Lock()
	e, ok := p.entries[key]
	if !ok {
		e = &entry{}
		p.entries[key] = e
	}
	p.mu.Unlock()

	e.once.Do(func() {
		rules, err := p.load(ctx, origin, userAgent)
		if err != nil {
			p.logger.Warn("robots.txt unavailable, allowing all",
				"origin", origin,
				"err", err,
			)
			e.rules = mdmirror.AllowAll{}
			return
		}
		e.rules = rules
	})
	return e.rules
}

func (p *Policy) load(ctx context.Context, origin, userAgent string) (*Rules, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "invalid origin %q: %v", origin, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.ENETWORK, "fetch robots.txt: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, mdmirror.Errorf(mdmirror.ENETWORK, "HTTP %d for %s/robots.txt", resp.StatusCode, origin)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.ENETWORK, "read robots.txt: %v", err)
	}

	return Parse(body, userAgent)
}

var _ mdmirror.RobotsRules = (*Rules)(nil)

// Rules is a parsed robots.txt evaluated for one user agent.
// The most specific matching agent group applies and within it the
// longest matching rule wins.
type Rules struct {
	data  *robotstxt.RobotsData
	agent string
}

// Parse builds Rules from a robots.txt body.
func Parse(body []byte, userAgent string) (*Rules, error) {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "parse robots.txt: %v", err)
	}
	return &Rules{data: data, agent: userAgent}, nil
}

// Allowed reports whether rawURL may be fetched. Malformed URLs and
// internal evaluation failures are allowed.
func (r *Rules) Allowed(rawURL string) (allowed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			allowed = true
		}
	}()

	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return r.data.TestAgent(requestPath(u), r.agent)
}

// requestPath returns the path and query robots rules are matched against.
func requestPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p = fmt.Sprintf("%s?%s", p, u.RawQuery)
	}
	return p
}
