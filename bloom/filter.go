// Package bloom provides URL set membership backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact string set with a Bloom filter in front of it.
// Misses, the common case while crawling, are answered by the filter
// alone; probable hits are confirmed against the exact map so a false
// positive never drops a URL. Set is not safe for concurrent use.
type Set struct {
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewSet creates a Set sized for n expected items with the given
// false positive rate for the prefilter.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		f:     bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]struct{}),
	}
}

// Add inserts v. It returns false if s was already present.
func (s *Set) Add(v string) bool {
	if s.Contains(v) {
		return false
	}
	s.f.AddString(v)
	s.exact[v] = struct{}{}
	return true
}

// Contains reports whether v has been added.
func (s *Set) Contains(v string) bool {
	if !s.f.TestString(v) {
		return false
	}
	_, ok := s.exact[v]
	return ok
}

// Len returns the exact number of items in the set.
func (s *Set) Len() int {
	return len(s.exact)
}

// EstimatedCount returns the filter's approximation of the number of items.
func (s *Set) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
