package mock

import "github.com/fwojciec/mdmirror"

var _ mdmirror.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of mdmirror.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*mdmirror.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*mdmirror.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ mdmirror.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of mdmirror.ContentExtractor.
type ContentExtractor struct {
	CleanHTMLFn    func(html string) string
	MainContentFn  func(html string) string
	ExtractTitleFn func(html string) string
}

func (e *ContentExtractor) CleanHTML(html string) string {
	return e.CleanHTMLFn(html)
}

func (e *ContentExtractor) MainContent(html string) string {
	return e.MainContentFn(html)
}

func (e *ContentExtractor) ExtractTitle(html string) string {
	return e.ExtractTitleFn(html)
}

var _ mdmirror.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of mdmirror.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
