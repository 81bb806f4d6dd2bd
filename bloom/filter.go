// Package bloom provides approximate URL deduplication for sitemap
// discovery, where a rare false positive only drops a URL from the
// candidate set and never violates a correctness guarantee.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenFilter tracks URLs already encountered during sitemap traversal.
// It guards against sitemap index cycles and repeated entries without
// holding every URL string in memory.
type SeenFilter struct {
	f *bloom.BloomFilter
}

// NewSeenFilter creates a filter sized for n expected URLs with the
// given false positive rate.
func NewSeenFilter(n uint, fpRate float64) *SeenFilter {
	return &SeenFilter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks the URL as seen and reports whether it was new.
// A false near-duplicate is possible; a missed duplicate is not.
func (s *SeenFilter) Visit(url string) bool {
	return !s.f.TestOrAddString(url)
}

// Seen reports whether the URL might have been visited.
func (s *SeenFilter) Seen(url string) bool {
	return s.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs visited.
func (s *SeenFilter) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
