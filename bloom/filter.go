// Package bloom provides URL membership tracking backed by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for approximate URL membership.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Set is an exact set of URLs. Lookups consult the Bloom filter first, so a
// URL that was never added is rejected without touching the map; the map
// settles the filter's false positives. Set is not safe for concurrent use.
type Set struct {
	filter *Filter
	items  map[string]struct{}
}

// NewSet creates an empty Set whose filter is sized for n expected URLs.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: NewFilter(n, fpRate),
		items:  make(map[string]struct{}),
	}
}

// Add inserts url and reports whether it was absent.
func (s *Set) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.Add(url)
	s.items[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (s *Set) Contains(url string) bool {
	if !s.filter.Test(url) {
		return false
	}
	_, ok := s.items[url]
	return ok
}

// Len returns the exact number of URLs in the set.
func (s *Set) Len() int {
	return len(s.items)
}
