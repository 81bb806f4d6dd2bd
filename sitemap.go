package docscrape

import (
	"context"
	"regexp"
)

// URLSource discovers content-page URLs from a site. Used as a fallback
// when the table of contents yields nothing.
type URLSource interface {
	// Discover finds all URLs reachable from baseURL's sitemaps.
	// Sitemap indexes are resolved recursively. The filter can be used to
	// include/exclude URLs by pattern; a nil filter passes everything.
	Discover(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern
	// are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
