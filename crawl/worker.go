package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/domcrawl"
)

// worker runs the fetch loop shared by every goroutine of a run.
// It holds no crawl state of its own; all shared state lives in the
// Coordinator.
type worker struct {
	coord       *Coordinator
	fetcher     domcrawl.Fetcher
	extractor   domcrawl.LinkExtractor
	limiter     domcrawl.DomainLimiter
	logger      *slog.Logger
	progress    *progressReporter
	baseDomain  string
	maxPages    int
	timeout     time.Duration
	retryDelays []time.Duration
	poll        time.Duration
}

// run claims and processes URLs until the coordinator terminates or ctx is
// canceled.
func (w *worker) run(ctx context.Context) error {
	for {
		claim, status := w.coord.TryClaim()
		switch status {
		case ClaimDone:
			return nil
		case ClaimRetry:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.coord.Terminated():
				return nil
			case <-time.After(w.poll):
			}
			continue
		}

		err := w.process(ctx, claim)
		w.coord.Done(claim.URL, err == nil)

		if err != nil {
			w.progress.report(ProgressEvent{Type: ProgressFailed, URL: claim.URL, Seq: claim.Seq, MaxPages: w.maxPages, Error: err})
		} else {
			w.progress.report(ProgressEvent{Type: ProgressCompleted, URL: claim.URL, Seq: claim.Seq, MaxPages: w.maxPages})
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// process fetches one page and hands its links to the coordinator.
// A panic while processing is recovered and reported as an error so that
// one bad page cannot take down the run.
func (w *worker) process(ctx context.Context, claim Claim) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", claim.URL, r)
			w.logger.Error("worker fault", "url", claim.URL, "panic", r)
		}
	}()

	w.progress.report(ProgressEvent{Type: ProgressStarted, URL: claim.URL, Seq: claim.Seq, MaxPages: w.maxPages})
	w.logger.Debug("crawling",
		"url", claim.URL,
		"page", fmt.Sprintf("%d/%d", claim.Seq, w.maxPages),
	)

	if err := w.limiter.Wait(ctx, domcrawl.DomainOf(claim.URL)); err != nil {
		return err
	}

	body, err := FetchWithRetryDelays(ctx, claim.URL, w.chargedFetch(), w.logRetry, w.retryDelays)
	if err != nil {
		w.logger.Warn("fetch failed", "url", claim.URL, "err", err)
		return err
	}

	var internal, external int
	for _, link := range w.extractor.ExtractLinks(body, claim.URL) {
		if domcrawl.IsInternal(link, w.baseDomain) {
			if w.coord.ProposeInternal(link) {
				internal++
			}
			continue
		}
		external++
		w.coord.ProposeExternal(domcrawl.DomainOf(link))
	}

	w.logger.Debug("page processed",
		"url", claim.URL,
		"queued", internal,
		"external", external,
	)
	return nil
}

// fetch applies the per-request timeout to a single attempt.
func (w *worker) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.fetcher.Fetch(ctx, url)
}

// chargedFetch returns the fetch function for one claim. The claim paid for
// the first attempt; each later attempt is charged to the page budget and
// refused with ErrBudgetExhausted when the budget is spent.
func (w *worker) chargedFetch() FetchFunc {
	first := true
	return func(ctx context.Context, url string) ([]byte, error) {
		if !first && !w.coord.TryCharge() {
			return nil, ErrBudgetExhausted
		}
		first = false
		return w.fetch(ctx, url)
	}
}

func (w *worker) logRetry(url string, attempt int, err error) {
	w.logger.Debug("retry", "url", url, "attempt", attempt, "err", err)
}

// progressReporter serializes calls to a ProgressFunc made from several
// workers.
type progressReporter struct {
	mu sync.Mutex
	fn ProgressFunc
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn}
}

func (p *progressReporter) report(event ProgressEvent) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn(event)
}
