// Package trafilatura implements mdmirror.Extractor with go-trafilatura,
// falling back to its bundled readability and dom-distiller engines.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/mdmirror"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements mdmirror.Extractor at compile time.
var _ mdmirror.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Images and links are kept so the mirror can localize them.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeImages:   true,
			IncludeLinks:    true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*mdmirror.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "trafilatura: no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "render content: %v", err)
	}

	return &mdmirror.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
