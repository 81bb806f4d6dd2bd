package docscrape

// Converter transforms HTML content into Markdown.
// Used by the generic extraction mode; the structural extractor builds its
// text body directly.
type Converter interface {
	Convert(html string) (string, error)
}
