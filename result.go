package domcrawl

import (
	"cmp"
	"context"
	"slices"
	"time"
)

// DomainCount is an external domain with the number of links pointing to it.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Result is the immutable outcome of a crawl run.
type Result struct {
	StartURL string `json:"startUrl"`

	// Domains is sorted by descending count, ties broken by ascending domain.
	Domains []DomainCount `json:"domains"`

	PagesVisited int           `json:"pagesVisited"`
	PagesFailed  int           `json:"pagesFailed"`
	Duration     time.Duration `json:"duration"`

	// Digest fingerprints Domains. Results with the same domains and counts
	// in the same order share a digest.
	Digest string `json:"digest"`
}

// Len returns the number of distinct external domains.
func (r *Result) Len() int {
	return len(r.Domains)
}

// DomainNames returns the presence-only view of the result: every domain seen
// at least once, in result order.
func (r *Result) DomainNames() []string {
	names := make([]string, 0, len(r.Domains))
	for _, d := range r.Domains {
		names = append(names, d.Domain)
	}
	return names
}

// SortDomainCounts sorts counts by descending count, then ascending domain.
func SortDomainCounts(counts []DomainCount) {
	slices.SortFunc(counts, func(a, b DomainCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Domain, b.Domain)
	})
}

// ResultWriter persists a crawl result.
type ResultWriter interface {
	WriteResult(ctx context.Context, result *Result) error
}

// Run is a persisted crawl result summary.
type Run struct {
	ID           string        `json:"id"`
	StartURL     string        `json:"startUrl"`
	PagesVisited int           `json:"pagesVisited"`
	PagesFailed  int           `json:"pagesFailed"`
	DomainCount  int           `json:"domainCount"`
	Duration     time.Duration `json:"duration"`
	Digest       string        `json:"digest"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// RunService represents a service for reading crawl history.
type RunService interface {
	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRunDomains returns the sorted domain counts recorded for a run.
	// Returns ENOTFOUND if the run does not exist.
	FindRunDomains(ctx context.Context, id string) ([]DomainCount, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
