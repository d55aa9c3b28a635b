package crawl

import (
	"errors"
	"maps"
	"sync"
)

// ErrBudgetExhausted is returned by a fetch attempt that was refused because
// the page budget is spent.
var ErrBudgetExhausted = errors.New("page budget exhausted")

// State is the lifecycle stage of a crawl run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateBudgetExhausted
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateBudgetExhausted:
		return "budget-exhausted"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ClaimStatus tells a worker what to do after TryClaim.
type ClaimStatus int

const (
	// ClaimOK means a URL was claimed and must be reported with Done.
	ClaimOK ClaimStatus = iota
	// ClaimRetry means no URL is available yet but fetches are in flight.
	ClaimRetry
	// ClaimDone means the run has terminated.
	ClaimDone
)

// Claim is a URL handed to a worker.
type Claim struct {
	URL string
	// Seq is the 1-based position of the claim within the page budget.
	Seq int
}

// Frontier sizing for the visited pre-check.
const (
	// minExpectedURLs is the smallest expected visited count used for Bloom filter sizing.
	minExpectedURLs = 1024
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-check.
	frontierFalsePositiveRate = 0.01
)

// Coordinator owns the shared state of one crawl run: the frontier, the
// visited set, the page budget, the in-flight count and the external domain
// counts. Every method is a single critical section and performs no I/O.
//
// The page budget bounds fetch attempts, not pages: a claim pays for its
// first attempt and every retry is charged separately with TryCharge.
type Coordinator struct {
	mu       sync.Mutex
	seed     string
	maxPages int
	state    State
	frontier *Frontier
	pages    int
	attempts int
	failed   int
	inFlight int
	domains  map[string]int
	done     chan struct{}
}

// NewCoordinator creates an idle Coordinator for a run seeded at seed that
// fetches at most maxPages pages.
func NewCoordinator(seed string, maxPages int) *Coordinator {
	return &Coordinator{
		seed:     seed,
		maxPages: maxPages,
		state:    StateIdle,
		frontier: NewFrontier(uint(max(maxPages, minExpectedURLs)), frontierFalsePositiveRate),
		domains:  make(map[string]int),
		done:     make(chan struct{}),
	}
}

// Start enqueues the seed and moves the run to Running.
// Calling Start on a run that is not idle has no effect.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}
	c.state = StateRunning
	c.frontier.Push(c.seed)
	c.evaluate()
}

// State returns the current lifecycle stage.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Terminated returns a channel that is closed when the run terminates.
func (c *Coordinator) Terminated() <-chan struct{} {
	return c.done
}

// ProposeInternal admits url to the frontier if it was never queued or
// visited and the page budget is not exhausted. Rejected URLs are dropped.
func (c *Coordinator) ProposeInternal(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle || c.state == StateTerminated {
		return false
	}
	if c.attempts >= c.maxPages {
		return false
	}
	if !c.frontier.Push(url) {
		return false
	}
	c.evaluate()
	return true
}

// ProposeExternal records one occurrence of an external domain.
// Empty domains are ignored.
func (c *Coordinator) ProposeExternal(domain string) {
	if domain == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateTerminated {
		return
	}
	c.domains[domain]++
}

// TryClaim removes the next URL from the frontier, marks it visited and
// charges it to the page budget in one step. Every ClaimOK must be followed
// by a call to Done.
func (c *Coordinator) TryClaim() (Claim, ClaimStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateTerminated:
		return Claim{}, ClaimDone
	case StateIdle:
		return Claim{}, ClaimRetry
	}

	if c.attempts >= c.maxPages {
		return Claim{}, c.idleStatus()
	}
	url, ok := c.frontier.Pop()
	if !ok {
		return Claim{}, c.idleStatus()
	}
	c.pages++
	c.attempts++
	c.inFlight++
	c.evaluate()
	return Claim{URL: url, Seq: c.pages}, ClaimOK
}

// TryCharge charges one more fetch attempt of an in-flight claim to the page
// budget. It returns false, leaving the budget untouched, once the budget is
// spent or the run has terminated.
func (c *Coordinator) TryCharge() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle || c.state == StateTerminated || c.inFlight == 0 {
		return false
	}
	if c.attempts >= c.maxPages {
		return false
	}
	c.attempts++
	c.evaluate()
	return true
}

// Done reports that the fetch of a claimed URL finished. ok is false when
// the page could not be fetched or processed.
func (c *Coordinator) Done(url string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight == 0 {
		return
	}
	c.inFlight--
	if !ok {
		c.failed++
	}
	c.evaluate()
}

// Abort terminates the run immediately. Claims already handed out may still
// report Done, but no further URLs or domains are accepted.
func (c *Coordinator) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminate()
}

// Snapshot is a copy of a run's counters and external domains.
type Snapshot struct {
	Domains      map[string]int
	PagesVisited int
	PagesFailed  int
	Queued       int
	InFlight     int

	// Attempts counts fetch attempts, retries included.
	Attempts int
}

// Snapshot copies the current state. After termination the snapshot is
// final.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Domains:      maps.Clone(c.domains),
		PagesVisited: c.pages,
		PagesFailed:  c.failed,
		Attempts:     c.attempts,
		Queued:       c.frontier.Len(),
		InFlight:     c.inFlight,
	}
}

// idleStatus is the status of a claim attempt that found no work.
// Must be called with c.mu held.
func (c *Coordinator) idleStatus() ClaimStatus {
	c.evaluate()
	if c.state == StateTerminated {
		return ClaimDone
	}
	return ClaimRetry
}

// evaluate recomputes the state after a mutation.
// Must be called with c.mu held.
func (c *Coordinator) evaluate() {
	if c.state == StateIdle || c.state == StateTerminated {
		return
	}
	exhausted := c.attempts >= c.maxPages
	empty := c.frontier.Len() == 0
	switch {
	case c.inFlight == 0 && (exhausted || empty):
		c.terminate()
	case exhausted:
		c.state = StateBudgetExhausted
	case empty:
		c.state = StateDraining
	default:
		c.state = StateRunning
	}
}

// terminate moves the run to Terminated once.
// Must be called with c.mu held.
func (c *Coordinator) terminate() {
	if c.state == StateTerminated {
		return
	}
	c.state = StateTerminated
	close(c.done)
}
