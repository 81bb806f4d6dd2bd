package docscrape

import (
	"context"
	"io"
	"strings"
	"time"
)

// Archive is the durable artifact of one run: the derived summary, the
// failure log, and every extracted page record.
type Archive struct {
	Summary  SessionSummary `json:"session_summary"`
	Failures []Failure      `json:"failed_pages"`
	Pages    []*PageRecord  `json:"scraped_content"`
}

// NewArchive builds the artifact for a session, fixing the end timestamp.
// Nil collections are normalized to empty slices so the serialized artifact
// always carries arrays.
func NewArchive(s *Session, end time.Time) *Archive {
	a := &Archive{
		Summary:  s.Summary(end),
		Failures: s.Failures,
		Pages:    s.Pages,
	}
	if a.Failures == nil {
		a.Failures = []Failure{}
	}
	if a.Pages == nil {
		a.Pages = []*PageRecord{}
	}
	return a
}

// ArchiveWriter persists a run artifact under a caller-chosen name.
type ArchiveWriter interface {
	// WriteArchive serializes the archive to the designated location.
	// A failed write reports the error; partial output is not cleaned up.
	WriteArchive(ctx context.Context, name string, archive *Archive) error
}

// ArchiveStore persists and retrieves run artifacts.
type ArchiveStore interface {
	ArchiveWriter

	// OpenArchive returns the stored artifact's bytes for download.
	// Returns ENOTFOUND for unknown names.
	OpenArchive(ctx context.Context, name string) (io.ReadCloser, error)
}

// NormalizeArchiveName ensures a user-chosen output name carries a .json
// suffix. It does not make the name unique; callers prefix a generated
// identifier before persistence.
func NormalizeArchiveName(name string) string {
	if !strings.HasSuffix(name, ".json") {
		return name + ".json"
	}
	return name
}
