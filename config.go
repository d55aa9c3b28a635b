package domcrawl

import (
	"net/url"
	"time"
)

// Default crawl settings.
const (
	DefaultMaxPages     = 100
	DefaultWorkers      = 8
	DefaultRequestDelay = 500 * time.Millisecond
	DefaultTimeout      = 10 * time.Second
)

// Config holds the inputs of a single crawl run.
type Config struct {
	// StartURL is the seed. It must be an absolute http or https URL.
	StartURL string

	// MaxPages caps the number of fetch attempts, retries included.
	MaxPages int

	// Workers is the number of concurrent fetch workers.
	Workers int

	// RequestDelay is the minimum interval between two requests to the
	// crawled site. Zero disables the throttle.
	RequestDelay time.Duration

	// Timeout applies to each fetch independently.
	Timeout time.Duration

	// Retries is the number of additional attempts for a failed fetch.
	Retries int
}

// DefaultConfig returns a Config populated with the default settings and no
// start URL.
func DefaultConfig() Config {
	return Config{
		MaxPages:     DefaultMaxPages,
		Workers:      DefaultWorkers,
		RequestDelay: DefaultRequestDelay,
		Timeout:      DefaultTimeout,
	}
}

// Validate returns an EINVALID error if the config cannot start a crawl.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return Errorf(EINVALID, "start URL required")
	}
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return Errorf(EINVALID, "invalid start URL %q: %v", c.StartURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "invalid start URL %q: scheme must be http or https", c.StartURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "invalid start URL %q: missing host", c.StartURL)
	}
	if c.MaxPages < 1 {
		return Errorf(EINVALID, "max pages must be at least 1")
	}
	if c.Workers < 1 {
		return Errorf(EINVALID, "workers must be at least 1")
	}
	if c.RequestDelay < 0 {
		return Errorf(EINVALID, "request delay must be non-negative")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.Retries < 0 {
		return Errorf(EINVALID, "retries must be non-negative")
	}
	return nil
}
