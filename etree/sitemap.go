// Package etree writes a sitemap.xml describing the mirrored pages.
package etree

import (
	"context"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/fwojciec/mdmirror"
)

// SitemapNamespace is the XML namespace of the sitemap protocol.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapFile is the file name written under the output directory.
const SitemapFile = "sitemap.xml"

// Ensure SitemapWriter implements mdmirror.SitemapWriter at compile time.
var _ mdmirror.SitemapWriter = (*SitemapWriter)(nil)

// SitemapWriter writes <output_dir>/sitemap.xml listing every saved page.
type SitemapWriter struct {
	dir string
}

// NewSitemapWriter creates a SitemapWriter for the given output directory.
func NewSitemapWriter(dir string) *SitemapWriter {
	return &SitemapWriter{dir: dir}
}

// WriteSitemap writes the source URL and local path of each saved page.
// Failed pages are left out.
func (w *SitemapWriter) WriteSitemap(ctx context.Context, pages []mdmirror.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := Build(pages)
	path := filepath.Join(w.dir, SitemapFile)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Build returns the sitemap document for pages.
func Build(pages []mdmirror.PageResult) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", SitemapNamespace)
	for _, p := range pages {
		if p.Err != nil {
			continue
		}
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(p.URL)
	}

	doc.Indent(2)
	return doc
}
