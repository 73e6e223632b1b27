package mdmirror

import (
	"context"
	"time"
)

// Page is one document moving through the transform pipeline.
type Page struct {
	URL         string
	HTML        string
	Title       string
	ContentHTML string
	Markdown    string
}

// PageResult reports the outcome of processing a single page.
// Failures are carried in Err rather than aborting the run.
type PageResult struct {
	URL         string
	Path        string
	Title       string
	ContentHash string
	Bytes       int
	Images      int
	Err         error
}

// PageWriter persists Markdown documents under the output root.
type PageWriter interface {
	// WritePage writes content to relPath, creating parent directories.
	WritePage(ctx context.Context, relPath string, content string) error
}

// SitemapWriter records the set of mirrored pages.
type SitemapWriter interface {
	WriteSitemap(ctx context.Context, pages []PageResult) error
}

// Run is a single mirroring session recorded in the index.
type Run struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	OutputDir  string    `json:"outputDir"`
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	return nil
}

// PageRecord is the index entry for one processed page.
type PageRecord struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	Bytes       int       `json:"bytes"`
	Error       string    `json:"error"`
	Position    int       `json:"position"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (p *PageRecord) Validate() error {
	if p.RunID == "" {
		return Errorf(EINVALID, "page run ID required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	RunID *string `json:"runId"`
	URL   *string `json:"url"`

	// FailedOnly restricts results to pages that recorded an error.
	FailedOnly bool `json:"failedOnly"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageIndex records mirroring runs and their pages.
type PageIndex interface {
	// CreateRun assigns an ID and start time to run and stores it.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters and finish time of run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, most recently started first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// RecordPage stores a page record for an existing run.
	RecordPage(ctx context.Context, rec *PageRecord) error

	// FindPages retrieves page records matching the filter in position order.
	FindPages(ctx context.Context, filter PageFilter) ([]*PageRecord, error)
}
