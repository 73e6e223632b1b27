package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements mdmirror.Converter at compile time.
var _ mdmirror.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("drops scripts and keeps emphasis", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<script>alert(1)</script><p>Hello <b>World</b></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Hello **World**")
		assert.NotContains(t, md, "alert(1)")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Title</h1><h2>Subtitle</h2>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
	})

	t.Run("keeps links by default", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>See <a href="https://example.com/docs">the docs</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the docs](https://example.com/docs)")
	})

	t.Run("drops link targets when links are not preserved", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithPreserveLinks(false))
		md, err := conv.Convert(`<p>See <a href="https://example.com/docs">the docs</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "the docs")
		assert.NotContains(t, md, "https://example.com/docs")
		assert.NotContains(t, md, "](")
	})

	t.Run("renders tables by default", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><tr><th>Name</th></tr><tr><td>Go</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Name |")
		assert.NotContains(t, md, "<table>")
	})

	t.Run("passes tables through when bypassed", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithRenderTables(false))
		md, err := conv.Convert(`<p>Intro</p><table><tr><td>Go</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "<table>")
		assert.Contains(t, md, "<td>Go</td>")
	})

	t.Run("keeps images with alt text", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><img src="/img/a.png" alt="Diagram"></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "![Diagram](/img/a.png)")
	})

	t.Run("preserves unicode literally", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Café naïve 日本語 &eacute;</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Café naïve 日本語 é")
		assert.NotContains(t, md, "&#")
	})

	t.Run("does not wrap long lines", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("word ", 60)
		md, err := htmltomarkdown.NewConverter().Convert("<p>" + long + "</p>")

		require.NoError(t, err)
		assert.Contains(t, md, strings.TrimSpace(long))
	})

	t.Run("code blocks use three backtick fences", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<pre><code class=\"language-go\">a := \"```\"\n</code></pre>")

		require.NoError(t, err)
		assert.Contains(t, md, "```go\n")
		assert.NotContains(t, md, "````")
	})

	t.Run("blank input yields empty output", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(" \n\t")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
