// Package domcrawl discovers the external domains a website links to.
// It breadth-crawls a site's internal link graph from a seed URL, records
// every external domain it sees along with an occurrence count, and never
// visits the external sites themselves.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/).
package domcrawl
