package docscrape

import (
	"context"
	"strings"
	"time"
)

// Session accumulates the state of one scrape run. It is owned exclusively
// by the orchestrator for the run's lifetime and flushed to an ArchiveWriter
// at the end; nothing else may mutate it concurrently.
type Session struct {
	TOCURL     string
	StartTime  time.Time
	Pages      []*PageRecord
	Failures   []Failure
	TotalWords int
}

// NewSession creates a session for a run seeded from the given TOC URL.
func NewSession(tocURL string) *Session {
	return &Session{
		TOCURL:    tocURL,
		StartTime: time.Now(),
	}
}

// AddPage appends a page record and accumulates its word count.
func (s *Session) AddPage(p *PageRecord) {
	s.Pages = append(s.Pages, p)
	s.TotalWords += WordCount(p.Content)
}

// AddFailure appends a failure record for a page that could not be fetched.
func (s *Session) AddFailure(url string, err error) {
	s.Failures = append(s.Failures, Failure{
		URL:       url,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

// Summary derives the run statistics from the session state.
// It never mutates the session.
func (s *Session) Summary(end time.Time) SessionSummary {
	return SessionSummary{
		TOCURL:              s.TOCURL,
		StartTime:           s.StartTime,
		EndTime:             end,
		TotalPagesScraped:   len(s.Pages),
		TotalWordsExtracted: s.TotalWords,
		FailedPagesCount:    len(s.Failures),
	}
}

// SessionSummary holds the derived statistics of a completed run.
type SessionSummary struct {
	TOCURL              string    `json:"toc_url"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	TotalPagesScraped   int       `json:"total_pages_scraped"`
	TotalWordsExtracted int       `json:"total_words_extracted"`
	FailedPagesCount    int       `json:"failed_pages_count"`
}

// WordCount returns the whitespace-split word count of s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// SessionRecord is a persisted summary of a past run, kept in the history
// store so completed crawls can be listed after the fact.
type SessionRecord struct {
	ID             string    `json:"id"`
	TOCURL         string    `json:"tocUrl"`
	ArchiveName    string    `json:"archiveName"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	PagesScraped   int       `json:"pagesScraped"`
	WordsExtracted int       `json:"wordsExtracted"`
	FailedPages    int       `json:"failedPages"`
}

// Validate returns an error if the record contains invalid fields.
func (r *SessionRecord) Validate() error {
	if r.TOCURL == "" {
		return Errorf(EINVALID, "session TOC URL required")
	}
	if r.ArchiveName == "" {
		return Errorf(EINVALID, "session archive name required")
	}
	return nil
}

// SessionService represents a service for recording and querying run history.
type SessionService interface {
	// CreateSession records a completed run and its failures.
	CreateSession(ctx context.Context, rec *SessionRecord, failures []Failure) error

	// FindSessionByID retrieves a session record by ID.
	// Returns ENOTFOUND if the session does not exist.
	FindSessionByID(ctx context.Context, id string) (*SessionRecord, error)

	// FindSessions retrieves session records matching the filter,
	// most recent first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*SessionRecord, error)
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	TOCURL *string `json:"tocUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
