package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector matches elements that never carry page content.
const noiseSelector = "script, style, noscript, meta, iframe, footer, nav"

// keptAttributes is the attribute allow-list applied by CleanHTML.
var keptAttributes = map[string]bool{
	"href":  true,
	"src":   true,
	"alt":   true,
	"title": true,
}

// CleanHTML removes non-content elements, HTML comments and elements hidden
// with an inline display:none, and strips every attribute outside
// href, src, alt and title. It returns html unchanged if the document
// cannot be processed.
func CleanHTML(h string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = h
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h))
	if err != nil {
		return h
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isHidden(s.AttrOr("style", ""))
	}).Remove()

	for _, n := range doc.Nodes {
		removeComments(n)
		stripAttributes(n)
	}

	out, err = doc.Html()
	if err != nil {
		return h
	}
	return out
}

// isHidden reports whether an inline style sets display:none.
func isHidden(style string) bool {
	style = strings.ToLower(strings.Join(strings.Fields(style), ""))
	for _, decl := range strings.Split(style, ";") {
		if strings.HasPrefix(decl, "display:none") {
			return true
		}
	}
	return false
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

func stripAttributes(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Namespace == "" && keptAttributes[strings.ToLower(a.Key)] {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttributes(c)
	}
}
