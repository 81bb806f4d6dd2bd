// Package fs provides file-based archive storage.
package fs

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docscrape"
)

// Ensure Store implements docscrape.ArchiveStore at compile time.
var _ docscrape.ArchiveStore = (*Store)(nil)

// Store persists scrape archives as JSON files in a single directory.
// Archive names are flat: a name carrying a path separator is rejected so a
// caller-supplied name can never escape the directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory archives are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// WriteArchive writes the archive as pretty-printed JSON under name.
// Multi-byte characters are written as-is, not escaped.
func (s *Store) WriteArchive(ctx context.Context, name string, archive *docscrape.Archive) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(archive); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OpenArchive opens a stored archive for reading.
// Returns ENOTFOUND if no archive exists under name.
func (s *Store) OpenArchive(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docscrape.Errorf(docscrape.ENOTFOUND, "Archive not found.")
		}
		return nil, err
	}
	return f, nil
}

// validateName rejects names that are empty or reach outside the store
// directory.
func validateName(name string) error {
	if name == "" {
		return docscrape.Errorf(docscrape.EINVALID, "Archive name required.")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return docscrape.Errorf(docscrape.EINVALID, "Invalid archive name.")
	}
	return nil
}
