package mock

import (
	"context"

	"github.com/fwojciec/docscrape"
)

var _ docscrape.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of docscrape.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, baseURL string, filter *docscrape.URLFilter) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, baseURL string, filter *docscrape.URLFilter) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL, filter)
}
