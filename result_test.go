package domcrawl_test

import (
	"testing"

	"github.com/fwojciec/domcrawl"
	"github.com/stretchr/testify/assert"
)

func TestSortDomainCounts(t *testing.T) {
	t.Parallel()

	counts := []domcrawl.DomainCount{
		{Domain: "c.test", Count: 1},
		{Domain: "b.test", Count: 3},
		{Domain: "a.test", Count: 1},
		{Domain: "d.test", Count: 3},
	}

	domcrawl.SortDomainCounts(counts)

	assert.Equal(t, []domcrawl.DomainCount{
		{Domain: "b.test", Count: 3},
		{Domain: "d.test", Count: 3},
		{Domain: "a.test", Count: 1},
		{Domain: "c.test", Count: 1},
	}, counts)
}

func TestResult_DomainNames(t *testing.T) {
	t.Parallel()

	r := &domcrawl.Result{
		Domains: []domcrawl.DomainCount{
			{Domain: "b.test", Count: 2},
			{Domain: "a.test", Count: 1},
		},
	}

	assert.Equal(t, []string{"b.test", "a.test"}, r.DomainNames())
	assert.Equal(t, 2, r.Len())
}

func TestResult_DomainNames_Empty(t *testing.T) {
	t.Parallel()

	r := &domcrawl.Result{}

	assert.Empty(t, r.DomainNames())
	assert.Zero(t, r.Len())
}
