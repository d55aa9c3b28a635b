// Package http provides an HTTP-based implementation of domcrawl.Fetcher.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/domcrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = domcrawl.DefaultTimeout

// DefaultUserAgent identifies as a desktop browser; some sites serve
// stripped-down pages to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements domcrawl.Fetcher at compile time.
var _ domcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over HTTP. It does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the number of body bytes read per response.
// Longer bodies are truncated, not rejected.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the page at url.
// Any non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var body io.Reader = resp.Body
	if f.maxBodySize > 0 {
		body = io.LimitReader(resp.Body, f.maxBodySize)
	}
	return io.ReadAll(body)
}

// Close releases idle connections held by the client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
