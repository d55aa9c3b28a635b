package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/domcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_lifecycle(t *testing.T) {
	t.Parallel()

	c := crawl.NewCoordinator("https://a.test/", 10)
	assert.Equal(t, crawl.StateIdle, c.State())

	_, status := c.TryClaim()
	assert.Equal(t, crawl.ClaimRetry, status, "idle coordinator hands out no work")

	c.Start()
	assert.Equal(t, crawl.StateRunning, c.State())

	claim, status := c.TryClaim()
	require.Equal(t, crawl.ClaimOK, status)
	assert.Equal(t, "https://a.test/", claim.URL)
	assert.Equal(t, 1, claim.Seq)
	assert.Equal(t, crawl.StateDraining, c.State(), "empty frontier with a fetch in flight")

	_, status = c.TryClaim()
	assert.Equal(t, crawl.ClaimRetry, status, "in-flight fetch may still add work")

	assert.True(t, c.ProposeInternal("https://a.test/p2"))
	assert.Equal(t, crawl.StateRunning, c.State())

	c.Done("https://a.test/", true)

	claim, status = c.TryClaim()
	require.Equal(t, crawl.ClaimOK, status)
	assert.Equal(t, "https://a.test/p2", claim.URL)
	c.Done(claim.URL, true)

	assert.Equal(t, crawl.StateTerminated, c.State())
	select {
	case <-c.Terminated():
	default:
		t.Fatal("terminated channel should be closed")
	}

	_, status = c.TryClaim()
	assert.Equal(t, crawl.ClaimDone, status)
}

func TestCoordinator_ProposeInternal(t *testing.T) {
	t.Parallel()

	t.Run("rejects visited and queued URLs", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 10)
		c.Start()

		assert.False(t, c.ProposeInternal("https://a.test/"), "seed is queued")
		claim, _ := c.TryClaim()
		assert.False(t, c.ProposeInternal(claim.URL), "seed is visited")

		assert.True(t, c.ProposeInternal("https://a.test/x"))
		assert.False(t, c.ProposeInternal("https://a.test/x"))
	})

	t.Run("rejects URLs before start", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 10)
		assert.False(t, c.ProposeInternal("https://a.test/x"))
	})

	t.Run("rejects URLs once the budget is exhausted", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 1)
		c.Start()
		_, status := c.TryClaim()
		require.Equal(t, crawl.ClaimOK, status)

		assert.Equal(t, crawl.StateBudgetExhausted, c.State())
		assert.False(t, c.ProposeInternal("https://a.test/x"))
		assert.Equal(t, 0, c.Snapshot().Queued)
	})
}

func TestCoordinator_ProposeExternal(t *testing.T) {
	t.Parallel()

	c := crawl.NewCoordinator("https://a.test/", 10)
	c.Start()
	claim, _ := c.TryClaim()

	c.ProposeExternal("b.test")
	c.ProposeExternal("b.test")
	c.ProposeExternal("c.test")
	c.ProposeExternal("")

	assert.Equal(t, map[string]int{"b.test": 2, "c.test": 1}, c.Snapshot().Domains)

	c.Done(claim.URL, true)
	require.Equal(t, crawl.StateTerminated, c.State())

	c.ProposeExternal("d.test")
	assert.Equal(t, map[string]int{"b.test": 2, "c.test": 1}, c.Snapshot().Domains, "no mutation after termination")
}

func TestCoordinator_budget_with_nonempty_frontier(t *testing.T) {
	t.Parallel()

	c := crawl.NewCoordinator("https://a.test/", 2)
	c.Start()

	seed, _ := c.TryClaim()
	c.ProposeInternal("https://a.test/1")
	c.ProposeInternal("https://a.test/2")
	c.ProposeInternal("https://a.test/3")
	c.Done(seed.URL, true)

	first, status := c.TryClaim()
	require.Equal(t, crawl.ClaimOK, status)
	assert.Equal(t, "https://a.test/1", first.URL)
	assert.Equal(t, crawl.StateBudgetExhausted, c.State())

	_, status = c.TryClaim()
	assert.Equal(t, crawl.ClaimRetry, status, "budget spent but a fetch is in flight")

	c.Done(first.URL, false)

	_, status = c.TryClaim()
	assert.Equal(t, crawl.ClaimDone, status)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.PagesVisited)
	assert.Equal(t, 1, snap.PagesFailed)
	assert.Equal(t, 2, snap.Queued, "unclaimed URLs stay queued")
}

func TestCoordinator_Abort(t *testing.T) {
	t.Parallel()

	c := crawl.NewCoordinator("https://a.test/", 10)
	c.Start()
	claim, _ := c.TryClaim()

	c.Abort()
	c.Abort()

	assert.Equal(t, crawl.StateTerminated, c.State())
	assert.False(t, c.ProposeInternal("https://a.test/x"))

	// A late completion report must not panic or reopen the run.
	c.Done(claim.URL, true)
	assert.Equal(t, crawl.StateTerminated, c.State())
}

func TestCoordinator_concurrent_claims_are_unique_and_bounded(t *testing.T) {
	t.Parallel()

	const (
		maxPages = 200
		workers  = 16
	)

	c := crawl.NewCoordinator("https://a.test/", maxPages)
	c.Start()

	var mu sync.Mutex
	claimed := make(map[string]int)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				claim, status := c.TryClaim()
				if status == crawl.ClaimDone {
					return
				}
				if status == crawl.ClaimRetry {
					continue
				}
				mu.Lock()
				claimed[claim.URL]++
				mu.Unlock()

				// Every page links to a handful of pages, most of them shared.
				for i := range 5 {
					c.ProposeInternal(fmt.Sprintf("https://a.test/%d", (claim.Seq*3+i+w)%500))
				}
				c.Done(claim.URL, true)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, maxPages)
	for url, n := range claimed {
		assert.Equal(t, 1, n, "url %s claimed more than once", url)
	}
	assert.Equal(t, maxPages, c.Snapshot().PagesVisited)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", crawl.StateIdle.String())
	assert.Equal(t, "running", crawl.StateRunning.String())
	assert.Equal(t, "draining", crawl.StateDraining.String())
	assert.Equal(t, "budget-exhausted", crawl.StateBudgetExhausted.String())
	assert.Equal(t, "terminated", crawl.StateTerminated.String())
	assert.Equal(t, "unknown", crawl.State(99).String())
}

func TestCoordinator_TryCharge(t *testing.T) {
	t.Parallel()

	t.Run("charges retries to the page budget", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 2)
		c.Start()

		seed, status := c.TryClaim()
		require.Equal(t, crawl.ClaimOK, status)
		c.ProposeInternal("https://a.test/1")

		assert.True(t, c.TryCharge())
		assert.False(t, c.TryCharge(), "budget is spent")
		assert.Equal(t, crawl.StateBudgetExhausted, c.State())

		_, status = c.TryClaim()
		assert.Equal(t, crawl.ClaimRetry, status, "retry used the last unit of budget")

		c.Done(seed.URL, false)

		_, status = c.TryClaim()
		assert.Equal(t, crawl.ClaimDone, status)

		snap := c.Snapshot()
		assert.Equal(t, 1, snap.PagesVisited)
		assert.Equal(t, 1, snap.PagesFailed)
		assert.Equal(t, 2, snap.Attempts)
		assert.Equal(t, 1, snap.Queued)
	})

	t.Run("refuses without a claim in flight", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 5)
		assert.False(t, c.TryCharge(), "idle run")

		c.Start()
		assert.False(t, c.TryCharge(), "nothing claimed yet")
		assert.Equal(t, 0, c.Snapshot().Attempts)
	})

	t.Run("refuses after abort", func(t *testing.T) {
		t.Parallel()

		c := crawl.NewCoordinator("https://a.test/", 5)
		c.Start()
		_, status := c.TryClaim()
		require.Equal(t, crawl.ClaimOK, status)

		c.Abort()

		assert.False(t, c.TryCharge())
		assert.Equal(t, 1, c.Snapshot().Attempts)
	})
}
