package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docscrape"
	dsgoquery "github.com/fwojciec/docscrape/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that Extractor implements docscrape.Extractor.
var _ docscrape.Extractor = (*dsgoquery.Extractor)(nil)

const pageURL = "https://docs.example.com/financials/ledger.htm"

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from the title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>  General Ledger  </title></head><body><p>x</p></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)
		assert.Equal(t, "General Ledger", rec.Title)
		assert.Equal(t, pageURL, rec.URL)
		assert.False(t, rec.Timestamp.IsZero())
	})

	t.Run("falls back to Untitled Page", func(t *testing.T) {
		t.Parallel()

		rec, err := dsgoquery.NewExtractor().Extract("<html><body><p>x</p></body></html>", pageURL)
		require.NoError(t, err)
		assert.Equal(t, "Untitled Page", rec.Title)
	})

	t.Run("scopes extraction to the body-container", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="nav"><p>Navigation noise</p></div>
<div class="body-container">
<h1>Ledger</h1>
<p>Real content.</p>
</div>
</body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)
		assert.Contains(t, rec.Content, "# Ledger")
		assert.Contains(t, rec.Content, "Real content.")
		assert.NotContains(t, rec.Content, "Navigation noise")
	})

	t.Run("falls back to body when no body-container exists", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h2>Accounts</h2><p>Body-level content.</p></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)
		assert.Contains(t, rec.Content, "## Accounts")
		assert.Contains(t, rec.Content, "Body-level content.")
	})

	t.Run("emits headings, paragraphs and list items in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<h1>Title</h1>
<p>Intro paragraph.</p>
<h2>Details</h2>
<ul><li>First item</li><li>Second item</li></ul>
<h3>Fine print</h3>
<p>Closing paragraph.</p>
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		want := []string{
			"# Title",
			"Intro paragraph.",
			"## Details",
			"First item",
			"Second item",
			"### Fine print",
			"Closing paragraph.",
		}
		var lines []string
		for _, line := range strings.Split(rec.Content, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		assert.Equal(t, want, lines)
	})

	t.Run("renders tables as Markdown", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<table>
<tr><th>A</th><th>B</th></tr>
<tr><td>1</td><td>2</td></tr>
</table>
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		require.Len(t, rec.Tables, 1)
		assert.Equal(t, "| A | B |\n|---|---|\n| 1 | 2 |\n", rec.Tables[0])
		// The rendered table is also appended to the flowing text body.
		assert.Contains(t, rec.Content, "| A | B |\n|---|---|\n| 1 | 2 |")
	})

	t.Run("skips header-only rows and omits separator without headers", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<table>
<tr><td>x</td><td>y</td></tr>
<tr><td>z</td><td>w</td></tr>
</table>
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		require.Len(t, rec.Tables, 1)
		assert.Equal(t, "| x | y |\n| z | w |\n", rec.Tables[0])
	})

	t.Run("appends tables after the text walk", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<table><tr><td>cell</td></tr></table>
<h1>After the table in the document</h1>
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		// Structural text comes first even though the table precedes it.
		assert.Less(t,
			strings.Index(rec.Content, "# After the table in the document"),
			strings.Index(rec.Content, "| cell |"))
	})

	t.Run("resolves images against the page URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<img src="img/chart.png" alt="Quarterly chart">
<img src="https://cdn.example.com/logo.png">
<img alt="no source">
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		assert.Equal(t, []docscrape.Image{
			{URL: "https://docs.example.com/financials/img/chart.png", Alt: "Quarterly chart"},
			{URL: "https://cdn.example.com/logo.png", Alt: ""},
		}, rec.Images)
	})

	t.Run("resolves links against the page URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="body-container">
<a href="next.htm">  Next chapter  </a>
<a href="../glossary.htm">Glossary</a>
</div></body></html>`

		rec, err := dsgoquery.NewExtractor().Extract(html, pageURL)
		require.NoError(t, err)

		assert.Equal(t, []docscrape.Link{
			{Text: "Next chapter", URL: "https://docs.example.com/financials/next.htm"},
			{Text: "Glossary", URL: "https://docs.example.com/glossary.htm"},
		}, rec.Links)
	})

	t.Run("extraction is idempotent apart from the timestamp", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Stable</title></head><body><div class="body-container">
<h1>Heading</h1>
<p>Paragraph.</p>
<table><tr><th>H</th></tr><tr><td>v</td></tr></table>
<img src="pic.png" alt="pic">
<a href="ref.htm">ref</a>
</div></body></html>`

		ext := dsgoquery.NewExtractor()
		first, err := ext.Extract(html, pageURL)
		require.NoError(t, err)
		second, err := ext.Extract(html, pageURL)
		require.NoError(t, err)

		assert.Equal(t, first.Content, second.Content)
		assert.Equal(t, first.Tables, second.Tables)
		assert.Equal(t, first.Images, second.Images)
		assert.Equal(t, first.Links, second.Links)
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := dsgoquery.NewExtractor().Extract("<html></html>", "://bad")
		require.Error(t, err)
		assert.Equal(t, docscrape.EINVALID, docscrape.ErrorCode(err))
	})
}
