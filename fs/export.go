package fs

import (
	"encoding/json"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docscrape"
)

// PagePath converts a page URL to a relative markdown file path.
// Example: https://example.com/docs/api/users.htm → docs/api/users.md
func PagePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path
	if path == "" || path == "/" {
		return "index.md", nil
	}
	path = strings.TrimPrefix(path, "/")
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}
	if ext := filepath.Ext(path); ext != "" {
		path = strings.TrimSuffix(path, ext)
	}
	return path + ".md", nil
}

// FormatPage renders a page record as markdown with YAML frontmatter.
func FormatPage(p *docscrape.PageRecord) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(p.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(p.Title)
	b.WriteString("\nscraped: ")
	b.WriteString(p.Timestamp.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(p.Content)
	b.WriteString("\n")
	return b.String()
}

// ExportArchive reads a JSON archive and writes one markdown file per page
// under destDir, mirroring each page's URL path. It returns the number of
// pages written.
func ExportArchive(r io.Reader, destDir string) (int, error) {
	var archive docscrape.Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return 0, docscrape.Errorf(docscrape.EINVALID, "Malformed archive: %v", err)
	}

	written := 0
	for _, page := range archive.Pages {
		relPath, err := PagePath(page.URL)
		if err != nil {
			return written, err
		}
		fullPath := filepath.Join(destDir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(fullPath, []byte(FormatPage(page)), 0o644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
