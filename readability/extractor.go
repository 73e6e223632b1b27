// Package readability implements mdmirror.Extractor with go-readability,
// the Mozilla Readability text-density algorithm.
package readability

import (
	"strings"

	"github.com/fwojciec/mdmirror"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements mdmirror.Extractor at compile time.
var _ mdmirror.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to isolate the main article of a page.
// Relative references are left as-is for the mirror to resolve per page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content. Blank input fails with
// EINVALID; a document without a readable article fails with EPARSE.
func (e *Extractor) Extract(rawHTML string) (*mdmirror.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mdmirror.Errorf(mdmirror.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, mdmirror.Errorf(mdmirror.EPARSE, "readability: no main content found")
	}

	return &mdmirror.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
