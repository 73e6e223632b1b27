package goquery_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/goquery"
	"github.com/fwojciec/mdmirror/mock"
	"github.com/stretchr/testify/assert"
)

func TestContentExtractor_MainContent(t *testing.T) {
	t.Parallel()

	t.Run("returns engine content", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor(&mock.Extractor{
			ExtractFn: func(string) (*mdmirror.ExtractResult, error) {
				return &mdmirror.ExtractResult{ContentHTML: "<article>main</article>"}, nil
			},
		})

		assert.Equal(t, "<article>main</article>", e.MainContent("<html>full</html>"))
	})

	t.Run("falls back to input on engine error", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor(&mock.Extractor{
			ExtractFn: func(string) (*mdmirror.ExtractResult, error) {
				return nil, errors.New("no article")
			},
		})

		assert.Equal(t, "<html>full</html>", e.MainContent("<html>full</html>"))
	})

	t.Run("falls back to input on empty content", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor(&mock.Extractor{
			ExtractFn: func(string) (*mdmirror.ExtractResult, error) {
				return &mdmirror.ExtractResult{ContentHTML: "  \n"}, nil
			},
		})

		assert.Equal(t, "<p>x</p>", e.MainContent("<p>x</p>"))
	})

	t.Run("falls back to input on engine panic", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewContentExtractor(&mock.Extractor{
			ExtractFn: func(string) (*mdmirror.ExtractResult, error) {
				panic("boom")
			},
		})

		assert.Equal(t, "<p>x</p>", e.MainContent("<p>x</p>"))
	})

	t.Run("nil engine passes input through", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "<p>x</p>", goquery.NewContentExtractor(nil).MainContent("<p>x</p>"))
	})
}

func TestContentExtractor_delegates_cleaning_and_title(t *testing.T) {
	t.Parallel()

	e := goquery.NewContentExtractor(nil)

	assert.NotContains(t, e.CleanHTML("<script>x()</script><p>y</p>"), "x()")
	assert.Equal(t, "T", e.ExtractTitle("<title>T</title>"))
}
