// Package htmltomarkdown implements mdmirror.Converter with
// JohannesKaufmann/html-to-markdown and a set of normalizing cleanup passes.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/mdmirror"
)

// Ensure Converter implements mdmirror.Converter at compile time.
var _ mdmirror.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv          *converter.Converter
	preserveLinks bool
	renderTables  bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithPreserveLinks controls whether hyperlink targets are kept.
// When false only the link text is emitted. Defaults to true.
func WithPreserveLinks(v bool) Option {
	return func(c *Converter) {
		c.preserveLinks = v
	}
}

// WithRenderTables controls whether tables become Markdown tables.
// When false table markup is passed through as HTML. Defaults to true.
func WithRenderTables(v bool) Option {
	return func(c *Converter) {
		c.renderTables = v
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		preserveLinks: true,
		renderTables:  true,
	}
	for _, opt := range opts {
		opt(c)
	}

	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		strikethrough.NewStrikethroughPlugin(),
	}
	if c.renderTables {
		plugins = append(plugins, table.NewTablePlugin())
	}
	conv := converter.NewConverter(converter.WithPlugins(plugins...))

	if !c.preserveLinks {
		conv.Register.RendererFor("a", converter.TagTypeInline, base.RenderAsPlaintextWrapper, converter.PriorityEarly)
	}
	if !c.renderTables {
		conv.Register.RendererFor("table", converter.TagTypeBlock, base.RenderAsHTML, converter.PriorityEarly)
	}

	c.conv = conv
	return c
}

// Convert transforms HTML content into Markdown and normalizes the result.
// Blank input yields an empty document. If a cleanup pass fails the raw
// converter output is returned instead.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	raw, err := c.conv.ConvertString(html)
	if err != nil {
		return "", mdmirror.Errorf(mdmirror.ECONVERT, "convert HTML: %v", err)
	}

	return Cleanup(raw), nil
}
