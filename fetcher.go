package docscrape

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the response body.
	// The context controls timeout and cancellation. A transport error
	// or a non-2xx status is returned as an error; retry policy is the
	// caller's concern.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
