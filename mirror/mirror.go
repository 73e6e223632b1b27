// Package mirror turns crawled pages into a local Markdown tree. It drives
// each page through cleaning, main content extraction, conversion, image
// localization and writing, and records the outcome of the run.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/mdmirror"
	"github.com/fwojciec/mdmirror/crawl"
	"github.com/fwojciec/mdmirror/fs"
	"github.com/google/uuid"
)

// Mirror orchestrates a mirroring run.
type Mirror struct {
	Source    mdmirror.PageSource
	Content   mdmirror.ContentExtractor
	Converter mdmirror.Converter
	Images    *Rewriter
	Writer    mdmirror.PageWriter

	// Index records the run and its pages when set.
	Index mdmirror.PageIndex

	// Sitemap receives the saved pages at the end of the run when set.
	Sitemap mdmirror.SitemapWriter

	Logger    *slog.Logger
	OutputDir string
}

// Result holds the outcome of a mirroring run.
type Result struct {
	RunID  string
	Saved  int
	Failed int
	Bytes  int
	Assets int
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run mirrors the site at seed. Pages are processed one at a time in crawl
// order and a failed page never stops the run. The returned error is
// non-nil only for an invalid seed or when ctx ends the run early; in the
// latter case the partial result is returned as well.
func (m *Mirror) Run(ctx context.Context, seed string, progress ProgressFunc) (*Result, error) {
	start, err := crawl.Normalize(seed)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	run := &mdmirror.Run{SeedURL: start, OutputDir: m.OutputDir}
	index := m.createRun(ctx, run)
	logger := m.logger().With("run", run.ID)
	logger.Info("mirror started", "url", start, "output", m.OutputDir)

	result := &Result{RunID: run.ID}
	var pages []mdmirror.PageResult
	position := 0
	for pageURL, html := range m.Source.Crawl(ctx, start) {
		progress(ProgressEvent{Type: ProgressStarted, Completed: position, URL: pageURL})

		page := m.processPage(ctx, logger, start, pageURL, html)
		pages = append(pages, page)
		position++

		if page.Err != nil {
			result.Failed++
			logger.Warn("page failed", "url", pageURL, "err", page.Err)
			progress(ProgressEvent{Type: ProgressFailed, Completed: position, URL: pageURL, Error: page.Err})
		} else {
			result.Saved++
			result.Bytes += page.Bytes
			result.Assets += page.Images
			progress(ProgressEvent{Type: ProgressCompleted, Completed: position, URL: pageURL, Path: page.Path})
		}
		recordPage(ctx, index, logger, run.ID, position, page)
	}

	// Bookkeeping still happens when the run was interrupted.
	final := context.WithoutCancel(ctx)
	run.Saved, run.Failed = result.Saved, result.Failed
	finishRun(final, index, logger, run)
	m.writeSitemap(final, logger, pages)

	logger.Info("mirror finished",
		"saved", result.Saved,
		"failed", result.Failed,
		"bytes", result.Bytes,
		"assets", result.Assets,
	)
	progress(ProgressEvent{Type: ProgressFinished, Completed: position})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("mirror interrupted: %w", err)
	}
	return result, nil
}

// ProcessPage converts one fetched page and writes it under the output root.
// Failures are reported in the returned PageResult.
func (m *Mirror) ProcessPage(ctx context.Context, seed, pageURL, html string) mdmirror.PageResult {
	return m.processPage(ctx, m.logger(), seed, pageURL, html)
}

func (m *Mirror) processPage(ctx context.Context, logger *slog.Logger, seed, pageURL, html string) (res mdmirror.PageResult) {
	res.URL = pageURL
	defer func() {
		if r := recover(); r != nil {
			res.Err = mdmirror.Errorf(mdmirror.EINTERNAL, "processing %s panicked: %v", pageURL, r)
		}
	}()

	cleaned := m.Content.CleanHTML(html)
	main := m.Content.MainContent(cleaned)
	res.Title = m.Content.ExtractTitle(html)

	markdown, err := m.Converter.Convert(main)
	if err != nil {
		res.Err = err
		return res
	}
	markdown = prependTitle(res.Title, markdown)

	relPath, err := fs.OutputPath(seed, pageURL)
	if err != nil {
		relPath = fs.FallbackPath(pageURL)
		logger.Warn("using fallback path", "url", pageURL, "path", relPath, "err", err)
	}
	res.Path = relPath

	if m.Images != nil {
		markdown, res.Images = m.Images.Rewrite(ctx, markdown, pageURL, fs.AssetPrefix(relPath))
	}

	if err := m.Writer.WritePage(ctx, relPath, markdown); err != nil {
		res.Err = err
		return res
	}
	res.Bytes = len(markdown)
	res.ContentHash = crawl.ComputeHash(markdown)
	return res
}

// prependTitle adds a level-one heading unless the document already opens
// with it.
func prependTitle(title, markdown string) string {
	if title == "" {
		return markdown
	}
	heading := "# " + title
	if strings.HasPrefix(strings.TrimLeft(markdown, "\n"), heading) {
		return markdown
	}
	if markdown == "" {
		return heading + "\n"
	}
	return heading + "\n\n" + markdown
}

// createRun registers run in the index and returns the index to use for
// the rest of the run. Without a usable index the run gets a local ID and
// nil is returned.
func (m *Mirror) createRun(ctx context.Context, run *mdmirror.Run) mdmirror.PageIndex {
	if m.Index != nil {
		err := m.Index.CreateRun(ctx, run)
		if err == nil {
			return m.Index
		}
		m.logger().Warn("index unavailable", "err", err)
	}
	run.ID = uuid.NewString()
	run.StartedAt = time.Now().UTC()
	return nil
}

func recordPage(ctx context.Context, index mdmirror.PageIndex, logger *slog.Logger, runID string, position int, page mdmirror.PageResult) {
	if index == nil {
		return
	}
	rec := &mdmirror.PageRecord{
		RunID:       runID,
		URL:         page.URL,
		Path:        page.Path,
		Title:       page.Title,
		ContentHash: page.ContentHash,
		Bytes:       page.Bytes,
		Position:    position,
	}
	if page.Err != nil {
		rec.Error = page.Err.Error()
	}
	if err := index.RecordPage(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("index record failed", "url", page.URL, "err", err)
	}
}

func finishRun(ctx context.Context, index mdmirror.PageIndex, logger *slog.Logger, run *mdmirror.Run) {
	if index == nil {
		return
	}
	if err := index.FinishRun(ctx, run); err != nil {
		logger.Warn("index finish failed", "err", err)
	}
}

func (m *Mirror) writeSitemap(ctx context.Context, logger *slog.Logger, pages []mdmirror.PageResult) {
	if m.Sitemap == nil {
		return
	}
	if err := m.Sitemap.WriteSitemap(ctx, pages); err != nil {
		logger.Warn("sitemap write failed", "err", err)
	}
}

func (m *Mirror) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
