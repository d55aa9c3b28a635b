package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/domcrawl"
	main "github.com/fwojciec/domcrawl/cmd/domcrawl"
	"github.com/fwojciec/domcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with ID, URL and counts", func(t *testing.T) {
		t.Parallel()

		var gotFilter domcrawl.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter domcrawl.RunFilter) ([]*domcrawl.Run, error) {
				gotFilter = filter
				return []*domcrawl.Run{
					{
						ID:           "run-123",
						StartURL:     "https://a.test/",
						PagesVisited: 40,
						PagesFailed:  2,
						DomainCount:  17,
						Duration:     3 * time.Second,
						CreatedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		cmd := &main.RunsCmd{URL: "https://a.test/", Limit: 5}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.StartURL)
		assert.Equal(t, "https://a.test/", *gotFilter.StartURL)
		assert.Equal(t, 5, gotFilter.Limit)

		output := stdout.String()
		assert.Contains(t, output, "run-123")
		assert.Contains(t, output, "https://a.test/")
		assert.Contains(t, output, "17")
		assert.Contains(t, output, "3s")
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, domcrawl.RunFilter) ([]*domcrawl.Run, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs recorded")
	})

	t.Run("shows domains of a single run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, id string) (*domcrawl.Run, error) {
				return &domcrawl.Run{ID: id, StartURL: "https://a.test/", PagesVisited: 2, Digest: "abc"}, nil
			},
			FindRunDomainsFn: func(context.Context, string) ([]domcrawl.DomainCount, error) {
				return []domcrawl.DomainCount{{Domain: "b.test", Count: 2}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{ID: "run-1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "# Run run-1: https://a.test/ (2 pages, digest abc)\n# Domain\tCount\nb.test\t2\n", stdout.String())
	})

	t.Run("reports missing run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(context.Context, string) (*domcrawl.Run, error) {
				return nil, domcrawl.Errorf(domcrawl.ENOTFOUND, "run not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.RunsCmd{ID: "missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, domcrawl.ENOTFOUND, domcrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "run not found")
	})
}
