package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/mdmirror"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ mdmirror.PageIndex = (*PageIndex)(nil)

// PageIndex implements mdmirror.PageIndex using SQLite.
type PageIndex struct {
	db *DB
}

// NewPageIndex creates a new PageIndex.
func NewPageIndex(db *DB) *PageIndex {
	return &PageIndex{db: db}
}

// CreateRun creates a new run.
func (s *PageIndex) CreateRun(ctx context.Context, run *mdmirror.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, output_dir, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.SeedURL, run.OutputDir, run.StartedAt.Format(time.RFC3339))

	return err
}

// FinishRun stores the final counters of a run and stamps its finish time.
func (s *PageIndex) FinishRun(ctx context.Context, run *mdmirror.Run) error {
	finishedAt := time.Now().UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET saved = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, run.Saved, run.Failed, finishedAt.Format(time.RFC3339), run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return mdmirror.Errorf(mdmirror.ENOTFOUND, "run not found")
	}

	run.FinishedAt = finishedAt
	return nil
}

const runColumns = "id, seed_url, output_dir, saved, failed, started_at, finished_at"

// FindRunByID retrieves a run by ID.
func (s *PageIndex) FindRunByID(ctx context.Context, id string) (*mdmirror.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdmirror.Errorf(mdmirror.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs, most recently started first.
func (s *PageIndex) FindRuns(ctx context.Context, filter mdmirror.RunFilter) ([]*mdmirror.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*mdmirror.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// scanRun reads one runs row selected with runColumns.
func scanRun(row interface{ Scan(...any) error }) (*mdmirror.Run, error) {
	var run mdmirror.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.SeedURL, &run.OutputDir, &run.Saved, &run.Failed, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	// An unfinished run has no finish time.
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}

	return &run, nil
}

// RecordPage stores the outcome of one processed page.
func (s *PageIndex) RecordPage(ctx context.Context, rec *mdmirror.PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.FetchedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, run_id, url, path, title, content_hash, bytes, error, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.URL, rec.Path, rec.Title, rec.ContentHash, rec.Bytes, rec.Error,
		rec.Position, rec.FetchedAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return mdmirror.Errorf(mdmirror.ENOTFOUND, "run not found")
	}

	return err
}

// FindPages retrieves page records matching the filter ordered by position.
func (s *PageIndex) FindPages(ctx context.Context, filter mdmirror.PageFilter) ([]*mdmirror.PageRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, url, path, title, content_hash, bytes, error, position, fetched_at FROM pages WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.FailedOnly {
		query.WriteString(" AND error != ''")
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*mdmirror.PageRecord
	for rows.Next() {
		var rec mdmirror.PageRecord
		var fetchedAt string

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.URL, &rec.Path, &rec.Title,
			&rec.ContentHash, &rec.Bytes, &rec.Error, &rec.Position, &fetchedAt); err != nil {
			return nil, err
		}

		if rec.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
