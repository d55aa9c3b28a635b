package main

import (
	"context"
	"io"

	"github.com/fwojciec/domcrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Fetcher is used for every page when set; otherwise an HTTP fetcher is
	// built from the resolved timeout.
	Fetcher   domcrawl.Fetcher
	Extractor domcrawl.LinkExtractor

	// History records finished crawls. Nil disables recording.
	History domcrawl.ResultWriter
	Runs    domcrawl.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB string `help:"Run history database path (default: $DOMCRAWL_DB or $XDG_DATA_HOME/domcrawl/domcrawl.db)"`

	Crawl CrawlCmd `cmd:"" help:"Crawl a website and collect the external domains it links to"`
	Runs  RunsCmd  `cmd:"" help:"List recorded crawls or show the domains of one"`
}

// unset marks a numeric flag that was not given.
const unset = -1

// CrawlCmd is the "crawl" subcommand.
//
// Numeric flags default to unset and duration flags to "": the config file
// or the built-in default applies. Any value given explicitly, zero
// included, is validated as is.
type CrawlCmd struct {
	URL         string `arg:"" optional:"" help:"Start URL (overrides start_url from the config file)"`
	Config      string `short:"c" help:"YAML config file (default: ./domcrawl.yaml or $XDG_CONFIG_HOME/domcrawl/config.yaml if present)"`
	MaxPages    int    `short:"m" default:"-1" help:"Maximum page fetches, retries included (default 100)"`
	Workers     int    `short:"w" default:"-1" help:"Concurrent fetch workers (default 8)"`
	Delay       string `short:"d" help:"Minimum delay between requests to the site, e.g. 500ms (default 500ms)"`
	Timeout     string `short:"t" help:"Per-request timeout, e.g. 5s (default 10s)"`
	Retries     int    `default:"-1" help:"Retries per failed fetch (default 0)"`
	Output      string `short:"o" help:"Output file (default: generated from the site's domain)"`
	Format      string `short:"f" help:"Output format: tsv, plain or csv (default tsv)"`
	Registrable bool   `help:"Also print domains grouped by registrable domain"`
	NoHistory   bool   `help:"Do not record this crawl in the run history"`
	Verbose     bool   `short:"v" help:"Enable debug logging"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	ID    string `arg:"" optional:"" help:"Run ID to show domains for"`
	URL   string `help:"Only list runs of this start URL"`
	Limit int    `short:"n" default:"20" help:"Maximum runs to list"`
}
