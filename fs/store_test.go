package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArchive() *docscrape.Archive {
	return &docscrape.Archive{
		Summary: docscrape.SessionSummary{
			TOCURL:              "https://docs.example.com/toc.htm",
			StartTime:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			EndTime:             time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
			TotalPagesScraped:   1,
			TotalWordsExtracted: 2,
		},
		Failures: []docscrape.Failure{},
		Pages: []*docscrape.PageRecord{
			{
				URL:       "https://docs.example.com/a.htm",
				Title:     "Ledgers & Journals",
				Content:   "hello wörld",
				Tables:    []string{},
				Images:    []docscrape.Image{},
				Links:     []docscrape.Link{},
				Timestamp: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
			},
		},
	}
}

func TestStore_WriteArchive(t *testing.T) {
	t.Parallel()

	t.Run("writes pretty-printed JSON with top-level sections", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)

		err := store.WriteArchive(context.Background(), "run.json", testArchive())
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "run.json"))
		require.NoError(t, err)
		out := string(data)

		assert.Contains(t, out, `"session_summary"`)
		assert.Contains(t, out, `"failed_pages"`)
		assert.Contains(t, out, `"scraped_content"`)

		// Four-space indentation.
		assert.Contains(t, out, "\n    \"session_summary\"")
	})

	t.Run("does not escape HTML or multi-byte characters", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)

		err := store.WriteArchive(context.Background(), "run.json", testArchive())
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "run.json"))
		require.NoError(t, err)

		assert.Contains(t, string(data), "Ledgers & Journals")
		assert.Contains(t, string(data), "wörld")
		assert.NotContains(t, string(data), `&`)
	})

	t.Run("creates the directory on first write", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "downloads")
		store := fs.NewStore(dir)

		err := store.WriteArchive(context.Background(), "run.json", testArchive())
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "run.json"))
		assert.NoError(t, err)
	})

	t.Run("rejects names with path separators", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())

		for _, name := range []string{"../escape.json", "a/b.json", `a\b.json`, ""} {
			err := store.WriteArchive(context.Background(), name, testArchive())
			assert.Equal(t, docscrape.EINVALID, docscrape.ErrorCode(err), "name %q", name)
		}
	})
}

func TestStore_OpenArchive(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a written archive", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		require.NoError(t, store.WriteArchive(context.Background(), "run.json", testArchive()))

		rc, err := store.OpenArchive(context.Background(), "run.json")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Contains(t, string(data), "https://docs.example.com/a.htm")
	})

	t.Run("returns ENOTFOUND for an unknown name", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())

		_, err := store.OpenArchive(context.Background(), "missing.json")
		require.Error(t, err)
		assert.Equal(t, docscrape.ENOTFOUND, docscrape.ErrorCode(err))
	})

	t.Run("rejects traversal in the name", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())

		_, err := store.OpenArchive(context.Background(), "../secret.json")
		require.Error(t, err)
		assert.Equal(t, docscrape.EINVALID, docscrape.ErrorCode(err))
	})
}

func TestPagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"htm page", "https://docs.example.com/guide/ledger.htm", "guide/ledger.md"},
		{"root", "https://docs.example.com/", "index.md"},
		{"no path", "https://docs.example.com", "index.md"},
		{"trailing slash", "https://docs.example.com/guide/", "guide/index.md"},
		{"extensionless", "https://docs.example.com/guide/ledger", "guide/ledger.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fs.PagePath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPage(t *testing.T) {
	t.Parallel()

	page := &docscrape.PageRecord{
		URL:       "https://docs.example.com/a.htm",
		Title:     "Ledger Basics",
		Content:   "# Ledger Basics\ntext",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	out := fs.FormatPage(page)

	assert.True(t, strings.HasPrefix(out, "---\n"), "frontmatter must lead")
	assert.Contains(t, out, "source: https://docs.example.com/a.htm\n")
	assert.Contains(t, out, "title: Ledger Basics\n")
	assert.Contains(t, out, "scraped: 2025-06-01\n")
	assert.Contains(t, out, "\n---\n\n# Ledger Basics\ntext\n")
}

func TestExportArchive(t *testing.T) {
	t.Parallel()

	t.Run("writes one markdown file per page", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)
		require.NoError(t, store.WriteArchive(context.Background(), "run.json", testArchive()))

		rc, err := store.OpenArchive(context.Background(), "run.json")
		require.NoError(t, err)
		defer rc.Close()

		dest := filepath.Join(dir, "export")
		n, err := fs.ExportArchive(rc, dest)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		data, err := os.ReadFile(filepath.Join(dest, "a.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "title: Ledgers & Journals")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ExportArchive(strings.NewReader("not json"), t.TempDir())
		require.Error(t, err)
		assert.Equal(t, docscrape.EINVALID, docscrape.ErrorCode(err))
	})
}
