package mock

import (
	"context"

	"github.com/fwojciec/mdmirror"
)

var _ mdmirror.PageWriter = (*PageWriter)(nil)

// PageWriter is a mock implementation of mdmirror.PageWriter.
type PageWriter struct {
	WritePageFn func(ctx context.Context, relPath string, content string) error
}

func (w *PageWriter) WritePage(ctx context.Context, relPath string, content string) error {
	return w.WritePageFn(ctx, relPath, content)
}

var _ mdmirror.SitemapWriter = (*SitemapWriter)(nil)

// SitemapWriter is a mock implementation of mdmirror.SitemapWriter.
type SitemapWriter struct {
	WriteSitemapFn func(ctx context.Context, pages []mdmirror.PageResult) error
}

func (w *SitemapWriter) WriteSitemap(ctx context.Context, pages []mdmirror.PageResult) error {
	return w.WriteSitemapFn(ctx, pages)
}

var _ mdmirror.PageIndex = (*PageIndex)(nil)

// PageIndex is a mock implementation of mdmirror.PageIndex.
type PageIndex struct {
	CreateRunFn   func(ctx context.Context, run *mdmirror.Run) error
	FinishRunFn   func(ctx context.Context, run *mdmirror.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*mdmirror.Run, error)
	FindRunsFn    func(ctx context.Context, filter mdmirror.RunFilter) ([]*mdmirror.Run, error)
	RecordPageFn  func(ctx context.Context, rec *mdmirror.PageRecord) error
	FindPagesFn   func(ctx context.Context, filter mdmirror.PageFilter) ([]*mdmirror.PageRecord, error)
}

func (i *PageIndex) CreateRun(ctx context.Context, run *mdmirror.Run) error {
	return i.CreateRunFn(ctx, run)
}

func (i *PageIndex) FinishRun(ctx context.Context, run *mdmirror.Run) error {
	return i.FinishRunFn(ctx, run)
}

func (i *PageIndex) FindRunByID(ctx context.Context, id string) (*mdmirror.Run, error) {
	return i.FindRunByIDFn(ctx, id)
}

func (i *PageIndex) FindRuns(ctx context.Context, filter mdmirror.RunFilter) ([]*mdmirror.Run, error) {
	return i.FindRunsFn(ctx, filter)
}

func (i *PageIndex) RecordPage(ctx context.Context, rec *mdmirror.PageRecord) error {
	return i.RecordPageFn(ctx, rec)
}

func (i *PageIndex) FindPages(ctx context.Context, filter mdmirror.PageFilter) ([]*mdmirror.PageRecord, error) {
	return i.FindPagesFn(ctx, filter)
}
