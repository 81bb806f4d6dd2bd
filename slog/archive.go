package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docscrape"
)

// Ensure LoggingArchiveStore implements docscrape.ArchiveStore.
var _ docscrape.ArchiveStore = (*LoggingArchiveStore)(nil)

// LoggingArchiveStore wraps an ArchiveStore with operation logging.
type LoggingArchiveStore struct {
	next   docscrape.ArchiveStore
	logger *slog.Logger
}

// NewLoggingArchiveStore creates a new LoggingArchiveStore.
func NewLoggingArchiveStore(next docscrape.ArchiveStore, logger *slog.Logger) *LoggingArchiveStore {
	return &LoggingArchiveStore{next: next, logger: logger}
}

// WriteArchive delegates to the wrapped store and logs the operation.
func (s *LoggingArchiveStore) WriteArchive(ctx context.Context, name string, archive *docscrape.Archive) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("archive write",
			"name", name,
			"pages", len(archive.Pages),
			"failures", len(archive.Failures),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteArchive(ctx, name, archive)
}

// OpenArchive delegates to the wrapped store and logs the operation.
func (s *LoggingArchiveStore) OpenArchive(ctx context.Context, name string) (rc io.ReadCloser, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("archive open",
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.OpenArchive(ctx, name)
}
