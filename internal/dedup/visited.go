// Package dedup implements the admit-at-most-once gate over canonical URLs.
package dedup

import "sync"

// VisitedSet is the run-scoped set of canonical URLs already admitted to the
// pipeline. It grows monotonically for the lifetime of one crawl run and is
// never persisted; a fresh run starts empty.
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet creates an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Admit records url and reports whether this was its first appearance.
// Check-and-insert is one indivisible operation: for any url, exactly one
// concurrent caller observes true.
func (v *VisitedSet) Admit(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Len reports how many URLs have been admitted so far.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}
