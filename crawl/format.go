package crawl

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/domcrawl"
)

// Digest fingerprints the domain report of a result using xxhash.
// Results with the same domains and counts in the same order share a digest.
func Digest(result *domcrawl.Result) string {
	h := xxhash.New()
	for _, d := range result.Domains {
		_, _ = h.WriteString(d.Domain)
		_, _ = h.WriteString("\t")
		_, _ = h.WriteString(strconv.Itoa(d.Count))
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
