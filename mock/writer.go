package mock

import (
	"context"

	"github.com/fwojciec/domcrawl"
)

var _ domcrawl.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of domcrawl.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *domcrawl.Result) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *domcrawl.Result) error {
	return w.WriteResultFn(ctx, result)
}

var _ domcrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of domcrawl.RunService.
type RunService struct {
	FindRunByIDFn    func(ctx context.Context, id string) (*domcrawl.Run, error)
	FindRunsFn       func(ctx context.Context, filter domcrawl.RunFilter) ([]*domcrawl.Run, error)
	FindRunDomainsFn func(ctx context.Context, id string) ([]domcrawl.DomainCount, error)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*domcrawl.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter domcrawl.RunFilter) ([]*domcrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindRunDomains(ctx context.Context, id string) ([]domcrawl.DomainCount, error) {
	return s.FindRunDomainsFn(ctx, id)
}
