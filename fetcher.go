package domcrawl

import "context"

// Fetcher retrieves the raw body of a resource.
type Fetcher interface {
	// Fetch returns the body at url. Any error, including non-2xx
	// responses, means no content is available.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// LinkExtractor extracts hyperlinks from documents.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs linked from document, resolving
	// relative references against baseURL. Unparsable documents yield no
	// links.
	ExtractLinks(document []byte, baseURL string) []string
}
