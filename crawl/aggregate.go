package crawl

import (
	"net"
	"strings"
	"time"

	"github.com/fwojciec/domcrawl"
	"golang.org/x/net/publicsuffix"
)

// Summary holds the run counters that accompany the domain report.
type Summary struct {
	StartURL     string
	PagesVisited int
	PagesFailed  int
	Duration     time.Duration
}

// Finalize builds the result for a domain snapshot. Domains are sorted by
// descending count, ties broken by ascending name; zero counts are dropped.
// The output depends only on its inputs, not on discovery order.
func Finalize(domains map[string]int, summary Summary) *domcrawl.Result {
	counts := make([]domcrawl.DomainCount, 0, len(domains))
	for domain, n := range domains {
		if domain == "" || n <= 0 {
			continue
		}
		counts = append(counts, domcrawl.DomainCount{Domain: domain, Count: n})
	}
	domcrawl.SortDomainCounts(counts)

	result := &domcrawl.Result{
		StartURL:     summary.StartURL,
		Domains:      counts,
		PagesVisited: summary.PagesVisited,
		PagesFailed:  summary.PagesFailed,
		Duration:     summary.Duration,
	}
	result.Digest = Digest(result)
	return result
}

// GroupByRegistrable merges the domains of result by registrable domain
// (eTLD+1), so that www.b.test and cdn.b.test count towards b.test.
func GroupByRegistrable(result *domcrawl.Result) *domcrawl.Result {
	merged := make(map[string]int, len(result.Domains))
	for _, d := range result.Domains {
		merged[RegistrableDomain(d.Domain)] += d.Count
	}
	return Finalize(merged, Summary{
		StartURL:     result.StartURL,
		PagesVisited: result.PagesVisited,
		PagesFailed:  result.PagesFailed,
		Duration:     result.Duration,
	})
}

// RegistrableDomain returns the eTLD+1 of a domain, without port.
// IP addresses and hosts without a registrable part are returned as-is.
func RegistrableDomain(domain string) string {
	host := domain
	if h, _, err := net.SplitHostPort(domain); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if net.ParseIP(host) != nil {
		return host
	}
	reg, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return reg
}
