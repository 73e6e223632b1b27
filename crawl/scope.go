package crawl

import (
	"net"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/fwojciec/mdmirror"
	"golang.org/x/net/publicsuffix"
)

// SkippedExtensions lists file extensions that are never enqueued.
var SkippedExtensions = []string{
	".pdf", ".zip", ".rar",
	".jpg", ".jpeg", ".png", ".gif",
	".mp3", ".mp4", ".avi", ".mov",
	".exe",
}

// Normalize canonicalizes an absolute http(s) URL: scheme and host are
// lowercased, default ports and the fragment are dropped, and an empty
// path becomes "/". Other schemes and relative URLs fail with EINVALID.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", mdmirror.Errorf(mdmirror.EINVALID, "unsupported scheme in %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", mdmirror.Errorf(mdmirror.EINVALID, "missing host in %q", rawURL)
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	switch {
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		u.Host = "[" + host + "]"
	default:
		u.Host = host
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.ForceQuery = false
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u.String(), nil
}

// Origin returns "scheme://host" of an absolute URL.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", mdmirror.Errorf(mdmirror.EINVALID, "invalid URL %q", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// HasSkippedExtension reports whether the URL path ends in one of
// SkippedExtensions, compared case-insensitively.
func HasSkippedExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return ext != "" && slices.Contains(SkippedExtensions, ext)
}

// Scope decides which URLs belong to the mirrored site.
type Scope struct {
	host   string
	domain string
}

// NewScope creates a Scope for the seed URL. By default only URLs with the
// seed's exact host (including port) are in scope. With includeSubdomains
// the scope widens to every host under the seed's registrable domain.
func NewScope(seed string, includeSubdomains bool) (*Scope, error) {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "invalid seed URL %q", seed)
	}

	s := &Scope{host: strings.ToLower(u.Host)}
	// IP addresses and single-label hosts have no registrable domain
	// and stay on exact host matching.
	hostname := strings.ToLower(u.Hostname())
	if includeSubdomains && net.ParseIP(hostname) == nil {
		if domain, err := publicsuffix.EffectiveTLDPlusOne(hostname); err == nil {
			s.domain = domain
		}
	}
	return s, nil
}

// Contains reports whether rawURL is within the scope.
func (s *Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.ToLower(u.Host) == s.host {
		return true
	}
	if s.domain == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == s.domain || strings.HasSuffix(host, "."+s.domain)
}
