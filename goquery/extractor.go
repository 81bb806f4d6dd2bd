package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docscrape"
)

// untitledPage is the title fallback for pages without a <title> element.
const untitledPage = "Untitled Page"

// Ensure Extractor implements docscrape.Extractor at compile time.
var _ docscrape.Extractor = (*Extractor)(nil)

// Extractor converts semi-structured documentation markup into a normalized
// page record. Extraction is scoped to the page's content root (the
// "body-container" element when present, else the document body) so
// navigation and boilerplate don't pollute the extracted text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML fetched from pageURL.
//
// The text body is built by walking headings (h1-h3), paragraphs and list
// items in document order, headings rendered as "#"-prefixed lines. Tables
// are rendered as Markdown, stored standalone and appended to the text body
// after the structural walk. Image and link references are resolved to
// absolute URLs against pageURL.
func (e *Extractor) Extract(html string, pageURL string) (*docscrape.PageRecord, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	title := cleanText(doc.Find("title").First().Text())
	if title == "" {
		title = untitledPage
	}

	root := contentRoot(doc)

	var content strings.Builder
	root.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		switch name := goquery.NodeName(sel); name {
		case "h1", "h2", "h3":
			level := int(name[1] - '0')
			content.WriteString("\n")
			content.WriteString(strings.Repeat("#", level))
			content.WriteString(" ")
			content.WriteString(text)
			content.WriteString("\n")
		default:
			content.WriteString(text)
			content.WriteString("\n")
		}
	})

	var tables []string
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		md := renderTable(table)
		tables = append(tables, md)
		content.WriteString("\n")
		content.WriteString(md)
		content.WriteString("\n")
	})

	var images []docscrape.Image
	root.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		resolved := resolveURL(base, src)
		if resolved == "" {
			return
		}
		images = append(images, docscrape.Image{
			URL: resolved,
			Alt: sel.AttrOr("alt", ""),
		})
	})

	var links []docscrape.Link
	root.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		links = append(links, docscrape.Link{
			Text: cleanText(sel.Text()),
			URL:  resolved,
		})
	})

	return &docscrape.PageRecord{
		URL:       pageURL,
		Title:     title,
		Content:   strings.TrimSpace(content.String()),
		Tables:    tables,
		Images:    images,
		Links:     links,
		Timestamp: time.Now(),
	}, nil
}

// contentRoot narrows extraction to the element holding meaningful content:
// the "body-container" div when present, the document body otherwise.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	if root := doc.Find("div.body-container").First(); root.Length() > 0 {
		return root
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// renderTable builds a Markdown table: a header row from <th> cells (if any)
// followed by a dash separator, then one row per <tr> built from its <td>
// cells. Rows without <td> cells (e.g. a header-only row) are skipped.
func renderTable(table *goquery.Selection) string {
	var b strings.Builder

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, cleanText(th.Text()))
	})
	if len(headers) > 0 {
		b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
	}

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cleanText(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	})

	return b.String()
}

// cleanText trims and collapses internal whitespace to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
