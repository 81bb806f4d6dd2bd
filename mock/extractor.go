package mock

import "github.com/fwojciec/docscrape"

var _ docscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docscrape.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*docscrape.PageRecord, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*docscrape.PageRecord, error) {
	return e.ExtractFn(html, pageURL)
}
