package crawl

import "sync"

// VisitedSet tracks URLs already dispatched in a run. Membership is exact
// (no probabilistic structure) because the at-most-once-fetch guarantee and
// the "skipping already visited" progress line must be deterministic.
// It is safe for concurrent use.
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Add marks a URL as visited.
// Returns false if the URL was already present.
func (v *VisitedSet) Add(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Seen returns true if the URL has been visited.
func (v *VisitedSet) Seen(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// Len returns the number of visited URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}
