package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/domcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ domcrawl.ResultWriter = (*ResultStore)(nil)
	_ domcrawl.RunService   = (*ResultStore)(nil)
)

// ResultStore records crawl results as runs and serves them back.
type ResultStore struct {
	db  *DB
	now func() time.Time
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// WriteResult stores result as a new run together with its domain counts.
func (s *ResultStore) WriteResult(ctx context.Context, result *domcrawl.Result) error {
	_, err := s.CreateRun(ctx, result)
	return err
}

// CreateRun stores result and returns the created run.
func (s *ResultStore) CreateRun(ctx context.Context, result *domcrawl.Result) (*domcrawl.Run, error) {
	if result == nil || result.StartURL == "" {
		return nil, domcrawl.Errorf(domcrawl.EINVALID, "result start URL required")
	}

	run := &domcrawl.Run{
		ID:           uuid.New().String(),
		StartURL:     result.StartURL,
		PagesVisited: result.PagesVisited,
		PagesFailed:  result.PagesFailed,
		DomainCount:  result.Len(),
		Duration:     result.Duration.Truncate(time.Millisecond),
		Digest:       result.Digest,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, pages_visited, pages_failed, domain_count, duration_ms, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartURL, run.PagesVisited, run.PagesFailed, run.DomainCount,
		run.Duration.Milliseconds(), run.Digest, run.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_domains (run_id, domain, count, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, dc := range result.Domains {
		if _, err := stmt.ExecContext(ctx, run.ID, dc.Domain, dc.Count, i); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// FindRunByID retrieves a run by ID.
func (s *ResultStore) FindRunByID(ctx context.Context, id string) (*domcrawl.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, pages_visited, pages_failed, domain_count, duration_ms, digest, created_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domcrawl.Errorf(domcrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *ResultStore) FindRuns(ctx context.Context, filter domcrawl.RunFilter) ([]*domcrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, pages_visited, pages_failed, domain_count, duration_ms, digest, created_at FROM runs WHERE 1=1")

	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	if filter.Offset > 0 && filter.Limit <= 0 {
		// SQLite requires a LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domcrawl.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindRunDomains returns the domain counts recorded for a run, in the order
// they were reported.
func (s *ResultStore) FindRunDomains(ctx context.Context, id string) ([]domcrawl.DomainCount, error) {
	if _, err := s.FindRunByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, count
		FROM run_domains
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains := []domcrawl.DomainCount{}
	for rows.Next() {
		var dc domcrawl.DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, err
		}
		domains = append(domains, dc)
	}

	return domains, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domcrawl.Run, error) {
	var run domcrawl.Run
	var durationMS int64
	var createdAt string

	if err := row.Scan(&run.ID, &run.StartURL, &run.PagesVisited, &run.PagesFailed, &run.DomainCount,
		&durationMS, &run.Digest, &createdAt); err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationMS) * time.Millisecond

	var err error
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &run, nil
}
