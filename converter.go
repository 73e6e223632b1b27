package mdmirror

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into cleaned-up Markdown.
	// Empty input yields an empty document.
	Convert(html string) (string, error)
}
