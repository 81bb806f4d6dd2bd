package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docscrape"
)

var _ docscrape.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is a mock implementation of docscrape.ArchiveStore.
type ArchiveStore struct {
	WriteArchiveFn func(ctx context.Context, name string, archive *docscrape.Archive) error
	OpenArchiveFn  func(ctx context.Context, name string) (io.ReadCloser, error)
}

func (s *ArchiveStore) WriteArchive(ctx context.Context, name string, archive *docscrape.Archive) error {
	return s.WriteArchiveFn(ctx, name, archive)
}

func (s *ArchiveStore) OpenArchive(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.OpenArchiveFn(ctx, name)
}
