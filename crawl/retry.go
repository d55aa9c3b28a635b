package crawl

import (
	"context"
	"errors"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// RetryLogFunc is called before each retry with the attempt number about to
// run and the error of the previous attempt.
type RetryLogFunc func(url string, attempt int, err error)

// BackoffDelays returns n exponential backoff delays starting at 1s: 1s, 2s, 4s, ...
func BackoffDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// FetchWithRetryDelays calls fetch once, then once more after each delay
// until an attempt succeeds. With no delays it makes a single attempt.
// An attempt failing with ErrBudgetExhausted ends the retries; the error of
// the last attempt that ran is returned.
// The logger function, if provided, is called for each retry attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger RetryLogFunc, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrBudgetExhausted) && lastErr != nil {
			return nil, lastErr
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
