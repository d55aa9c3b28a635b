package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/domcrawl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://a.test/page1"))

	f.Add("https://a.test/page1")

	assert.True(t, f.Test("https://a.test/page1"))
	assert.False(t, f.Test("https://a.test/page2"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("https://a.test/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://a.test/notadded/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func TestSet_Add(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(100, 0.01)

	assert.True(t, s.Add("https://a.test/"), "first add should report absent")
	assert.False(t, s.Add("https://a.test/"), "second add should report present")
	assert.True(t, s.Contains("https://a.test/"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_IsExactUnderSaturation(t *testing.T) {
	t.Parallel()

	// A filter sized for 10 items saturates quickly, so it reports many
	// false positives. The set must still never claim a URL it lacks.
	s := bloom.NewSet(10, 0.5)

	for i := range 1000 {
		s.Add(fmt.Sprintf("https://a.test/added/%d", i))
	}

	for i := range 1000 {
		assert.False(t, s.Contains(fmt.Sprintf("https://a.test/other/%d", i)))
		assert.True(t, s.Add(fmt.Sprintf("https://a.test/other/%d", i)))
	}
	assert.Equal(t, 2000, s.Len())
}
