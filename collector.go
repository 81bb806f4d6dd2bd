package docscrape

// LinkCollector derives the canonical set of content-page URLs from a
// table-of-contents document.
type LinkCollector interface {
	// Collect scans all hyperlinks in the TOC markup and returns the
	// ordered sequence of absolute content-page URLs to visit, duplicates
	// removed with first-seen order preserved. Relative references are
	// resolved against tocURL.
	Collect(html string, tocURL string) ([]string, error)
}
