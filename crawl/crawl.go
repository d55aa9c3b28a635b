// Package crawl provides the crawl engine: a coordinator that owns the
// frontier, visited set, page budget and external domain counts, a pool of
// fetch workers that draw from it, and the aggregation of the final report.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domcrawl"
	"golang.org/x/sync/errgroup"
)

// DefaultPollInterval is how long an idle worker waits before asking the
// coordinator for work again.
const DefaultPollInterval = 10 * time.Millisecond

// Crawler discovers the external domains linked from a website.
type Crawler struct {
	Fetcher   domcrawl.Fetcher
	Extractor domcrawl.LinkExtractor

	// RateLimiter throttles requests per domain. When nil, a DomainLimiter
	// spaced by the configured request delay is used.
	RateLimiter domcrawl.DomainLimiter

	// Logger receives crawl progress. Nil discards logs.
	Logger *slog.Logger

	// RetryDelays overrides the backoff derived from the configured retries.
	RetryDelays []time.Duration

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type     ProgressType
	URL      string
	Seq      int
	MaxPages int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run crawls the site at cfg.StartURL and returns its external domains.
//
// An invalid config is rejected with an EINVALID error before any request is
// made. Page-level failures never fail the run. If ctx is canceled the crawl
// stops dispatching, and the partial result is returned with ctx's error.
func (c *Crawler) Run(ctx context.Context, cfg domcrawl.Config, progress ProgressFunc) (*domcrawl.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limiter := c.RateLimiter
	if limiter == nil {
		limiter = NewDomainLimiter(cfg.RequestDelay)
	}

	retryDelays := c.RetryDelays
	if retryDelays == nil {
		retryDelays = BackoffDelays(cfg.Retries)
	}

	poll := c.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	begin := time.Now()
	baseDomain := domcrawl.DomainOf(cfg.StartURL)
	coord := NewCoordinator(cfg.StartURL, cfg.MaxPages)

	logger.Info("crawl started",
		"url", cfg.StartURL,
		"domain", baseDomain,
		"max_pages", cfg.MaxPages,
		"workers", cfg.Workers,
	)

	w := &worker{
		coord:       coord,
		fetcher:     c.Fetcher,
		extractor:   c.Extractor,
		limiter:     limiter,
		logger:      logger,
		progress:    newProgressReporter(progress),
		baseDomain:  baseDomain,
		maxPages:    cfg.MaxPages,
		timeout:     cfg.Timeout,
		retryDelays: retryDelays,
		poll:        poll,
	}

	coord.Start()

	g, gctx := errgroup.WithContext(ctx)
	for range cfg.Workers {
		g.Go(func() error {
			return w.run(gctx)
		})
	}
	err := g.Wait()

	// Workers only return early on cancellation; make sure nothing can
	// mutate the snapshot from here on.
	coord.Abort()
	snap := coord.Snapshot()

	result := Finalize(snap.Domains, Summary{
		StartURL:     cfg.StartURL,
		PagesVisited: snap.PagesVisited,
		PagesFailed:  snap.PagesFailed,
		Duration:     time.Since(begin),
	})

	w.progress.report(ProgressEvent{Type: ProgressFinished, Seq: result.PagesVisited, MaxPages: cfg.MaxPages})

	logger.Info("crawl completed",
		"pages", result.PagesVisited,
		"failed", result.PagesFailed,
		"attempts", snap.Attempts,
		"domains", result.Len(),
		"duration", result.Duration,
	)

	return result, err
}
