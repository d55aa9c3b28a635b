// Package goquery implements domcrawl.LinkExtractor using goquery.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/domcrawl"
)

// Ensure LinkExtractor implements domcrawl.LinkExtractor at compile time.
var _ domcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts the targets of anchor elements from HTML documents.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the absolute http(s) URL of every <a href> in the
// document, in document order. Links are resolved against the document's
// <base href> when present, otherwise against baseURL. Every occurrence is
// returned, so a link repeated on a page appears more than once. Internal
// and external links are both returned; classifying them is up to the
// caller. Unparsable input yields no links.
func (e *LinkExtractor) ExtractLinks(document []byte, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return nil
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved := resolveURL(base, href); resolved != nil {
			base = resolved
		}
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		links = append(links, resolved.String())
	})

	return links
}

// resolveURL resolves href against base. Fragments are stripped so that
// anchors within a page collapse to the page itself.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
