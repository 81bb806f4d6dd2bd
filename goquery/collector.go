// Package goquery provides CSS-selector based implementations of the
// docscrape link collector and content extractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docscrape"
)

// Ensure Collector implements docscrape.LinkCollector at compile time.
var _ docscrape.LinkCollector = (*Collector)(nil)

// Collector derives content-page URLs from a table-of-contents document.
//
// A candidate href survives only if, after fragment stripping, it ends with
// ".htm" and contains neither "index.html" nor "toc.htm". Both are literal
// substring checks, not path-aware: a URL carrying "toc.htm" anywhere in the
// string is excluded even mid-path.
type Collector struct{}

// NewCollector creates a new Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Collect scans all hyperlinks in the TOC markup and returns the ordered,
// deduplicated sequence of absolute content-page URLs.
func (c *Collector) Collect(html string, tocURL string) ([]string, error) {
	base, err := url.Parse(tocURL)
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINVALID, "invalid TOC URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docscrape.Errorf(docscrape.EINVALID, "failed to parse TOC HTML: %v", err)
	}

	seen := make(map[string]bool)
	var urls []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Strip the fragment before filtering so "page.htm#section"
		// counts as "page.htm".
		clean := href
		if idx := strings.Index(clean, "#"); idx != -1 {
			clean = clean[:idx]
		}
		if clean == "" {
			return
		}

		if !strings.HasSuffix(clean, ".htm") {
			return
		}
		if strings.Contains(clean, "index.html") || strings.Contains(clean, "toc.htm") {
			return
		}

		resolved := resolveURL(base, clean)
		if resolved == "" {
			return
		}

		// Dedup by exact string equality, first occurrence wins.
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		urls = append(urls, resolved)
	})

	return urls, nil
}

// resolveURL resolves a relative reference against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
