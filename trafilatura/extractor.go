// Package trafilatura provides a generic content extractor for
// documentation sites without a predictable page structure. It locates the
// main content with go-trafilatura and renders it to Markdown, trading the
// structural walk's exact ordering guarantees for broader site coverage.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docscrape"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docscrape.Extractor at compile time.
var _ docscrape.Extractor = (*Extractor)(nil)

// Extractor extracts page records using readability heuristics instead of
// fixed selectors.
type Extractor struct {
	converter docscrape.Converter
}

// NewExtractor creates an Extractor. The converter turns the located
// content HTML into Markdown.
func NewExtractor(converter docscrape.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract locates the main content of the page and returns a record with
// Markdown content plus resolved image and link inventories.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*docscrape.PageRecord, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docscrape.Errorf(docscrape.EINVALID, "empty HTML input")
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINVALID, "invalid page URL: %s", pageURL)
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
		OriginalURL:    base,
	})
	if err != nil {
		return nil, err
	}

	var content string
	if result.ContentNode != nil {
		contentHTML, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
		content, err = e.converter.Convert(contentHTML)
		if err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = "Untitled Page"
	}

	rec := &docscrape.PageRecord{
		URL:       pageURL,
		Title:     title,
		Content:   strings.TrimSpace(content),
		Tables:    []string{},
		Images:    []docscrape.Image{},
		Links:     []docscrape.Link{},
		Timestamp: time.Now(),
	}

	// Image and link inventories come from the full document, matching the
	// structural extractor's behavior.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINTERNAL, "parsing document for inventories: %v", err)
	}
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if resolved := resolve(base, src); resolved != "" {
			rec.Images = append(rec.Images, docscrape.Image{
				URL: resolved,
				Alt: sel.AttrOr("alt", ""),
			})
		}
	})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if resolved := resolve(base, href); resolved != "" {
			rec.Links = append(rec.Links, docscrape.Link{
				Text: strings.Join(strings.Fields(sel.Text()), " "),
				URL:  resolved,
			})
		}
	})

	return rec, nil
}

// renderNode converts an html.Node back to markup.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func resolve(base *url.URL, ref string) string {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
