package fs

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/mdmirror"
)

// RootDir holds pages of the seed's host that lie outside the seed's path.
const RootDir = "_root"

// unsafeChars are replaced in path segments so names work on every platform.
var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// OutputPath derives the Markdown file path, relative to the output root,
// for pageURL in a mirror of seedURL.
//
// Pages under the seed's path are placed relative to it. Pages on the seed's
// host outside that path go under RootDir by their full path, and pages on
// a different host (subdomain crawls) under a directory named after their
// host, so neither can overwrite a page of the seed tree. The site root maps
// to "index.md", "a/" and "a" both map to "a.md", a trailing .html or .htm
// is replaced, and a query string adds a short hash to the file name.
// Paths that cannot be derived safely fail with EPATH.
func OutputPath(seedURL, pageURL string) (string, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.EPATH, "invalid seed URL %q: %v", seedURL, err)
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.EPATH, "invalid page URL %q: %v", pageURL, err)
	}

	rel := page.Path
	var segments []string
	switch prefix := strings.TrimSuffix(seed.Path, "/"); {
	case !strings.EqualFold(seed.Host, page.Host):
		segments = append(segments, sanitizeSegment(strings.ToLower(page.Hostname())))
	case prefix == "":
	case rel == prefix || strings.HasPrefix(rel, prefix+"/"):
		rel = strings.TrimPrefix(rel, prefix)
	default:
		segments = append(segments, RootDir)
	}
	namespaced := len(segments) == 1

	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "":
			continue
		case ".", "..":
			return "", mdmirror.Errorf(mdmirror.EPATH, "path traversal in %q", pageURL)
		}
		segments = append(segments, sanitizeSegment(seg))
	}
	if len(segments) == 0 || (namespaced && len(segments) == 1) {
		segments = append(segments, "index")
	}

	last := segments[len(segments)-1]
	for _, ext := range []string{".html", ".htm"} {
		if trimmed, ok := strings.CutSuffix(strings.ToLower(last), ext); ok && trimmed != "" {
			last = last[:len(trimmed)]
			break
		}
	}
	if page.RawQuery != "" {
		last = fmt.Sprintf("%s_%08x", last, uint32(xxhash.Sum64String(page.RawQuery)))
	}
	segments[len(segments)-1] = last

	return path.Join(segments...) + ".md", nil
}

// FallbackPath returns a flat file name derived from a hash of pageURL,
// used when OutputPath fails.
func FallbackPath(pageURL string) string {
	return fmt.Sprintf("page_%016x.md", xxhash.Sum64String(pageURL))
}

// AssetPrefix returns the relative prefix that leads from the directory of
// the Markdown file at relPath back to the output root: "./" for files at
// the root and one "../" per directory level otherwise.
func AssetPrefix(relPath string) string {
	depth := strings.Count(path.Clean(relPath), "/")
	if depth == 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}

func sanitizeSegment(seg string) string {
	seg = unsafeChars.Replace(seg)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, seg)
}
