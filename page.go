package docscrape

import "time"

// Image is an image reference found inside a page's content root.
// URL is always absolute; Alt is empty when the image carries no alt text.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Link is a hyperlink found inside a page's content root.
// URL is always absolute.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// PageRecord is the normalized result of extracting a single page.
// It is immutable once produced; the crawler appends it to the session.
type PageRecord struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tables    []string  `json:"tables"`
	Images    []Image   `json:"images"`
	Links     []Link    `json:"links"`
	Timestamp time.Time `json:"timestamp"`
}

// Failure records a page that could not be fetched after retries.
type Failure struct {
	URL       string    `json:"url"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Extractor converts a single page's markup into a normalized record.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL. Relative image and
	// link references are resolved against pageURL before storage.
	Extract(html string, pageURL string) (*PageRecord, error)
}
