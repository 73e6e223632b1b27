package mdmirror

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title reported by the extraction engine.
	Title string

	// ContentHTML is the main content as HTML with boilerplate removed.
	ContentHTML string
}

// Extractor isolates the main content of a page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// ContentExtractor prepares raw page HTML for conversion.
// None of its methods fail; each degrades to a safe default.
type ContentExtractor interface {
	// CleanHTML removes non-content elements and presentational attributes.
	// It returns the input unchanged if the document cannot be processed.
	CleanHTML(html string) string

	// MainContent returns the primary article of the document, or the
	// input when no main content can be identified.
	MainContent(html string) string

	// ExtractTitle returns the page title or "" if none is found.
	ExtractTitle(html string) string
}
