package mock

import "github.com/fwojciec/docscrape"

var _ docscrape.LinkCollector = (*LinkCollector)(nil)

// LinkCollector is a mock implementation of docscrape.LinkCollector.
type LinkCollector struct {
	CollectFn func(html string, tocURL string) ([]string, error)
}

func (c *LinkCollector) Collect(html string, tocURL string) ([]string, error) {
	return c.CollectFn(html, tocURL)
}
