package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTitle returns the page title: the <title> text, else the first
// <h1>, else <meta name="title">, else <meta property="og:title">.
// Candidates are whitespace-trimmed and empty ones are skipped.
// It returns "" when no title is found.
func ExtractTitle(h string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h))
	if err != nil {
		return ""
	}

	candidates := []func() string{
		func() string { return doc.Find("title").First().Text() },
		func() string { return doc.Find("h1").First().Text() },
		func() string { return doc.Find(`meta[name="title"]`).First().AttrOr("content", "") },
		func() string { return doc.Find(`meta[property="og:title"]`).First().AttrOr("content", "") },
	}
	for _, candidate := range candidates {
		if title := collapseSpace(candidate()); title != "" {
			return title
		}
	}
	return ""
}

// collapseSpace trims s and folds internal whitespace runs into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
