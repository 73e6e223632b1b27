package goquery

import (
	"strings"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor combines goquery-based cleaning and title detection with
// a pluggable main-content engine.
type ContentExtractor struct {
	engine mdmirror.Extractor
}

// NewContentExtractor creates a ContentExtractor that isolates main content
// with engine. A nil engine makes MainContent return its input.
func NewContentExtractor(engine mdmirror.Extractor) *ContentExtractor {
	return &ContentExtractor{engine: engine}
}

// CleanHTML implements mdmirror.ContentExtractor.
func (e *ContentExtractor) CleanHTML(html string) string {
	return CleanHTML(html)
}

// MainContent returns the engine's main content, or html itself when the
// engine fails, panics, or finds nothing.
func (e *ContentExtractor) MainContent(html string) (content string) {
	if e.engine == nil {
		return html
	}
	defer func() {
		if r := recover(); r != nil {
			content = html
		}
	}()

	result, err := e.engine.Extract(html)
	if err != nil || result == nil || strings.TrimSpace(result.ContentHTML) == "" {
		return html
	}
	return result.ContentHTML
}

// ExtractTitle implements mdmirror.ContentExtractor.
func (e *ContentExtractor) ExtractTitle(html string) string {
	return ExtractTitle(html)
}
