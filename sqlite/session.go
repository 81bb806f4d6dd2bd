package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docscrape"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docscrape.SessionService = (*SessionService)(nil)

// SessionService implements docscrape.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession records a completed run and its per-page failures.
func (s *SessionService) CreateSession(ctx context.Context, rec *docscrape.SessionRecord, failures []docscrape.Failure) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, toc_url, archive_name, started_at, finished_at, pages_scraped, words_extracted, failed_pages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.TOCURL, rec.ArchiveName,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.PagesScraped, rec.WordsExtracted, rec.FailedPages)
	if err != nil {
		return err
	}

	for _, f := range failures {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO session_failures (session_id, url, error, failed_at)
			VALUES (?, ?, ?, ?)
		`, rec.ID, f.URL, f.Error, f.Timestamp.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}

	return nil
}

// FindSessionByID retrieves a session record by ID.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*docscrape.SessionRecord, error) {
	var rec docscrape.SessionRecord
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, toc_url, archive_name, started_at, finished_at, pages_scraped, words_extracted, failed_pages
		FROM sessions
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.TOCURL, &rec.ArchiveName, &startedAt, &finishedAt,
		&rec.PagesScraped, &rec.WordsExtracted, &rec.FailedPages)

	if err == sql.ErrNoRows {
		return nil, docscrape.Errorf(docscrape.ENOTFOUND, "Session not found.")
	}
	if err != nil {
		return nil, err
	}

	if rec.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if rec.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}

	return &rec, nil
}

// FindSessions retrieves session records matching the filter, most recent
// first.
func (s *SessionService) FindSessions(ctx context.Context, filter docscrape.SessionFilter) ([]*docscrape.SessionRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, toc_url, archive_name, started_at, finished_at, pages_scraped, words_extracted, failed_pages FROM sessions WHERE 1=1")

	if filter.TOCURL != nil {
		query.WriteString(" AND toc_url = ?")
		args = append(args, *filter.TOCURL)
	}

	query.WriteString(" ORDER BY started_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite rejects OFFSET without LIMIT; -1 means unbounded.
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*docscrape.SessionRecord
	for rows.Next() {
		var rec docscrape.SessionRecord
		var startedAt, finishedAt string

		if err := rows.Scan(&rec.ID, &rec.TOCURL, &rec.ArchiveName, &startedAt, &finishedAt,
			&rec.PagesScraped, &rec.WordsExtracted, &rec.FailedPages); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}

		sessions = append(sessions, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// FindSessionFailures retrieves the failure log of a session.
func (s *SessionService) FindSessionFailures(ctx context.Context, sessionID string) ([]docscrape.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, error, failed_at
		FROM session_failures
		WHERE session_id = ?
		ORDER BY failed_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []docscrape.Failure
	for rows.Next() {
		var f docscrape.Failure
		var failedAt string
		if err := rows.Scan(&f.URL, &f.Error, &failedAt); err != nil {
			return nil, err
		}
		if f.Timestamp, err = time.Parse(time.RFC3339, failedAt); err != nil {
			return nil, fmt.Errorf("failed to parse failed_at: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
