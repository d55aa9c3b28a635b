package domcrawl

import "net/url"

// DomainOf returns the authority (host, with port when present) of rawURL.
// Relative or unparsable URLs yield an empty string.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// IsInternal reports whether rawURL belongs to baseDomain.
// URLs without an authority are relative to the page they were found on and
// therefore always internal.
func IsInternal(rawURL, baseDomain string) bool {
	domain := DomainOf(rawURL)
	return domain == "" || domain == baseDomain
}
