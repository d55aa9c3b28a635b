package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/domcrawl"
	"golang.org/x/time/rate"
)

var _ domcrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain, allowing concurrent
// requests to different domains while spacing requests within each domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter that allows one request per
// interval to each domain. A non-positive interval disables limiting.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
func NewDomainLimiter(interval time.Duration) *DomainLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
