package mock

import (
	"context"

	"github.com/fwojciec/domcrawl"
)

var _ domcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of domcrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ domcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of domcrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(document []byte, baseURL string) []string
}

func (e *LinkExtractor) ExtractLinks(document []byte, baseURL string) []string {
	return e.ExtractLinksFn(document, baseURL)
}
