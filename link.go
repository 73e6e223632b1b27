package mdmirror

// LinkExtractor pulls hyperlink targets out of an HTML document.
type LinkExtractor interface {
	// ExtractLinks returns absolute, fragment-free URLs of all <a href>
	// targets in document order, resolved against baseURL. Pseudo-links
	// (javascript:, mailto:, tel:, data:, bare fragments) are omitted.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
