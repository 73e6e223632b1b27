package mirror_test

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/crawl"
	"github.com/fwojciec/mdmirror/fs"
	"github.com/fwojciec/mdmirror/goquery"
	"github.com/fwojciec/mdmirror/htmltomarkdown"
	mdhttp "github.com/fwojciec/mdmirror/http"
	"github.com/fwojciec/mdmirror/mirror"
	"github.com/fwojciec/mdmirror/mock"
	"github.com/fwojciec/mdmirror/robotstxt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pages returns a PageSource that yields the given url/html pairs in order.
func pages(pairs ...string) *mock.PageSource {
	return &mock.PageSource{
		CrawlFn: func(ctx context.Context, seed string) iter.Seq2[string, string] {
			return func(yield func(string, string) bool) {
				for i := 0; i+1 < len(pairs); i += 2 {
					if ctx.Err() != nil {
						return
					}
					if !yield(pairs[i], pairs[i+1]) {
						return
					}
				}
			}
		},
	}
}

func passthroughContent() *mock.ContentExtractor {
	return &mock.ContentExtractor{
		CleanHTMLFn:    func(html string) string { return html },
		MainContentFn:  func(html string) string { return html },
		ExtractTitleFn: func(string) string { return "" },
	}
}

func echoConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return html, nil },
	}
}

func TestMirror_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes every page and reports progress", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := &mirror.Mirror{
			Source:    pages("https://example.com/", "home", "https://example.com/docs/intro", "intro"),
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer:    fs.NewWriter(dir),
			OutputDir: dir,
		}

		var events []mirror.ProgressType
		result, err := m.Run(context.Background(), "https://example.com/", func(e mirror.ProgressEvent) {
			events = append(events, e.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, len("home")+len("intro"), result.Bytes)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, []mirror.ProgressType{
			mirror.ProgressStarted, mirror.ProgressCompleted,
			mirror.ProgressStarted, mirror.ProgressCompleted,
			mirror.ProgressFinished,
		}, events)

		home, err := os.ReadFile(filepath.Join(dir, "index.md"))
		require.NoError(t, err)
		assert.Equal(t, "home", string(home))
		intro, err := os.ReadFile(filepath.Join(dir, "docs", "intro.md"))
		require.NoError(t, err)
		assert.Equal(t, "intro", string(intro))
	})

	t.Run("failed page does not stop the run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := &mirror.Mirror{
			Source:  pages("https://example.com/bad", "bad", "https://example.com/good", "good"),
			Content: passthroughContent(),
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					if html == "bad" {
						return "", mdmirror.Errorf(mdmirror.ECONVERT, "broken")
					}
					return html, nil
				},
			},
			Writer: fs.NewWriter(dir),
		}

		result, err := m.Run(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
		_, err = os.Stat(filepath.Join(dir, "good.md"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "bad.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("records run and pages in the index", func(t *testing.T) {
		t.Parallel()

		var created, finished *mdmirror.Run
		var records []*mdmirror.PageRecord
		index := &mock.PageIndex{
			CreateRunFn: func(_ context.Context, run *mdmirror.Run) error {
				run.ID = "run-1"
				created = run
				return nil
			},
			FinishRunFn: func(_ context.Context, run *mdmirror.Run) error {
				finished = run
				return nil
			},
			RecordPageFn: func(_ context.Context, rec *mdmirror.PageRecord) error {
				records = append(records, rec)
				return nil
			},
		}
		m := &mirror.Mirror{
			Source:    pages("https://example.com/", "home"),
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer:    fs.NewWriter(t.TempDir()),
			Index:     index,
		}

		result, err := m.Run(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, "run-1", result.RunID)
		assert.Equal(t, "https://example.com/", created.SeedURL)
		assert.Equal(t, 1, finished.Saved)
		require.Len(t, records, 1)
		assert.Equal(t, "run-1", records[0].RunID)
		assert.Equal(t, "index.md", records[0].Path)
		assert.Equal(t, 1, records[0].Position)
		assert.Equal(t, crawl.ComputeHash("home"), records[0].ContentHash)
	})

	t.Run("index failure falls back to local run ID", func(t *testing.T) {
		t.Parallel()

		m := &mirror.Mirror{
			Source:    pages("https://example.com/", "home"),
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer:    fs.NewWriter(t.TempDir()),
			Index: &mock.PageIndex{
				CreateRunFn: func(context.Context, *mdmirror.Run) error {
					return errors.New("database locked")
				},
			},
		}

		result, err := m.Run(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 1, result.Saved)
	})

	t.Run("sitemap receives all page results", func(t *testing.T) {
		t.Parallel()

		var got []mdmirror.PageResult
		m := &mirror.Mirror{
			Source:    pages("https://example.com/", "home", "https://example.com/a", "a"),
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer:    fs.NewWriter(t.TempDir()),
			Sitemap: &mock.SitemapWriter{
				WriteSitemapFn: func(_ context.Context, pages []mdmirror.PageResult) error {
					got = pages
					return nil
				},
			},
		}

		_, err := m.Run(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "https://example.com/a", got[1].URL)
		assert.Equal(t, "a.md", got[1].Path)
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		m := &mirror.Mirror{
			Source:  pages("https://example.com/", "home", "https://example.com/a", "a"),
			Content: passthroughContent(),
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					cancel()
					return html, nil
				},
			},
			Writer: fs.NewWriter(t.TempDir()),
		}

		result, err := m.Run(ctx, "https://example.com/", nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Saved)
	})

	t.Run("invalid seed is rejected", func(t *testing.T) {
		t.Parallel()

		m := &mirror.Mirror{}

		_, err := m.Run(context.Background(), "ftp://example.com/", nil)

		assert.Equal(t, mdmirror.EINVALID, mdmirror.ErrorCode(err))
	})
}

func TestMirror_ProcessPage(t *testing.T) {
	t.Parallel()

	t.Run("prepends title heading", func(t *testing.T) {
		t.Parallel()

		var written string
		m := &mirror.Mirror{
			Content: &mock.ContentExtractor{
				CleanHTMLFn:    func(html string) string { return html },
				MainContentFn:  func(html string) string { return html },
				ExtractTitleFn: func(string) string { return "Guide" },
			},
			Converter: echoConverter(),
			Writer: &mock.PageWriter{
				WritePageFn: func(_ context.Context, _ string, content string) error {
					written = content
					return nil
				},
			},
		}

		res := m.ProcessPage(context.Background(), "https://example.com/", "https://example.com/guide", "Body text")

		require.NoError(t, res.Err)
		assert.Equal(t, "Guide", res.Title)
		assert.Equal(t, "guide.md", res.Path)
		assert.Equal(t, "# Guide\n\nBody text", written)
	})

	t.Run("does not repeat an existing heading", func(t *testing.T) {
		t.Parallel()

		var written string
		m := &mirror.Mirror{
			Content: &mock.ContentExtractor{
				CleanHTMLFn:    func(html string) string { return html },
				MainContentFn:  func(html string) string { return html },
				ExtractTitleFn: func(string) string { return "Guide" },
			},
			Converter: echoConverter(),
			Writer: &mock.PageWriter{
				WritePageFn: func(_ context.Context, _ string, content string) error {
					written = content
					return nil
				},
			},
		}

		m.ProcessPage(context.Background(), "https://example.com/", "https://example.com/guide", "# Guide\n\nBody")

		assert.Equal(t, "# Guide\n\nBody", written)
	})

	t.Run("write failure is reported", func(t *testing.T) {
		t.Parallel()

		m := &mirror.Mirror{
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer: &mock.PageWriter{
				WritePageFn: func(context.Context, string, string) error {
					return errors.New("read-only file system")
				},
			},
		}

		res := m.ProcessPage(context.Background(), "https://example.com/", "https://example.com/x", "x")

		require.Error(t, res.Err)
		assert.Equal(t, 0, res.Bytes)
	})

	t.Run("panic in a stage becomes a page error", func(t *testing.T) {
		t.Parallel()

		m := &mirror.Mirror{
			Content: &mock.ContentExtractor{
				CleanHTMLFn: func(string) string { panic("boom") },
			},
		}

		res := m.ProcessPage(context.Background(), "https://example.com/", "https://example.com/x", "x")

		assert.Equal(t, mdmirror.EINTERNAL, mdmirror.ErrorCode(res.Err))
	})

	t.Run("underivable path falls back to hash name", func(t *testing.T) {
		t.Parallel()

		var path string
		m := &mirror.Mirror{
			Content:   passthroughContent(),
			Converter: echoConverter(),
			Writer: &mock.PageWriter{
				WritePageFn: func(_ context.Context, relPath string, _ string) error {
					path = relPath
					return nil
				},
			},
		}

		res := m.ProcessPage(context.Background(), "https://example.com/", "https://example.com/a/../../x", "x")

		require.NoError(t, res.Err)
		assert.Equal(t, fs.FallbackPath("https://example.com/a/../../x"), path)
	})
}

func TestMirror_EndToEnd(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Home</title></head><body>
<script>alert(1)</script>
<p>Hello <b>World</b></p>
<a href="/a/b">Deep page</a>
</body></html>`))
	})
	mux.HandleFunc("/a/b", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Deep</title></head><body>
<p>Some deep content.</p>
<img src="/img/logo.png" alt="logo">
</body></html>`))
	})
	mux.HandleFunc("/img/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("PNGDATA"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	fetcher := mdhttp.NewFetcher()
	m := &mirror.Mirror{
		Source: &crawl.Crawler{
			Fetcher:  fetcher,
			Links:    goquery.NewLinkExtractor(),
			Robots:   robotstxt.NewPolicy(),
			Limiter:  crawl.NewDomainLimiter(0),
			MaxDepth: 2,
		},
		Content:   goquery.NewContentExtractor(nil),
		Converter: htmltomarkdown.NewConverter(),
		Images:    mirror.NewRewriter(mirror.NewResolver(fetcher, fs.NewAssetStore(filepath.Join(dir, mdmirror.AssetDir))), 2),
		Writer:    fs.NewWriter(dir),
		OutputDir: dir,
	}

	result, err := m.Run(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.Assets)

	home, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(home), "# Home\n"))
	assert.Contains(t, string(home), "Hello **World**")
	assert.NotContains(t, string(home), "alert(1)")

	deep, err := os.ReadFile(filepath.Join(dir, "a", "b.md"))
	require.NoError(t, err)
	assert.Contains(t, string(deep), "](../assets/logo.png)")

	logo, err := os.ReadFile(filepath.Join(dir, "assets", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(logo))
}
