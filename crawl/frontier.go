package crawl

import "github.com/fwojciec/domcrawl/bloom"

// Frontier is a FIFO queue of pending URLs paired with the set of URLs
// already claimed. A URL is admitted at most once per run: it is rejected
// while queued and after it has been claimed.
//
// Frontier is not safe for concurrent use; the Coordinator guards it.
type Frontier struct {
	visited *bloom.Set
	queued  map[string]struct{}
	queue   []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the visited pre-check.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		visited: bloom.NewSet(n, fpRate),
		queued:  make(map[string]struct{}),
	}
}

// Push appends url to the queue.
// Returns false if the URL is already queued or visited.
func (f *Frontier) Push(url string) bool {
	if _, ok := f.queued[url]; ok {
		return false
	}
	if f.visited.Contains(url) {
		return false
	}
	f.queued[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop removes the oldest queued URL and marks it visited.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.queued, url)
	f.visited.Add(url)
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}
