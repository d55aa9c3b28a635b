package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/domcrawl"
	"github.com/fwojciec/domcrawl/crawl"
	"github.com/fwojciec/domcrawl/fs"
	domcrawlhttp "github.com/fwojciec/domcrawl/http"
	domslog "github.com/fwojciec/domcrawl/slog"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	s, err := c.resolve()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domcrawl.ErrorMessage(err))
		return err
	}

	logger := newLogger(deps.Stderr, s.Verbose)

	fetcher := deps.Fetcher
	if fetcher == nil {
		httpFetcher := domcrawlhttp.NewFetcher(domcrawlhttp.WithTimeout(s.Config.Timeout))
		defer httpFetcher.Close()
		fetcher = httpFetcher
	}
	if s.Verbose {
		fetcher = domslog.NewLoggingFetcher(fetcher, logger)
	}

	crawler := &crawl.Crawler{
		Fetcher:   fetcher,
		Extractor: deps.Extractor,
		Logger:    logger,
	}

	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, crawlErr := crawler.Run(deps.Ctx, s.Config, progress)
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domcrawl.ErrorMessage(crawlErr))
		return crawlErr
	}
	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "crawl interrupted (%v), saving partial results\n", crawlErr)
	}

	output := s.Output
	if output == "" {
		output = fs.GenerateFilename(s.Config.StartURL)
	}

	// Results are saved even when the crawl was interrupted.
	ctx := context.WithoutCancel(deps.Ctx)

	writer := domslog.NewLoggingWriter(fs.NewResultWriter(output, s.Format), output, logger)
	if err := writer.WriteResult(ctx, result); err != nil {
		fmt.Fprintf(deps.Stderr, "error: saving results: %v\n", err)
		return err
	}

	if deps.History != nil {
		if err := deps.History.WriteResult(ctx, result); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not record run history: %v\n", err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Found %d external domains on %d pages (%d failed) in %s\n",
		result.Len(), result.PagesVisited, result.PagesFailed, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(deps.Stdout, "Saved to %s\n", output)

	if s.Registrable {
		grouped := crawl.GroupByRegistrable(result)
		fmt.Fprintf(deps.Stdout, "\nBy registrable domain (%d):\n", grouped.Len())
		for _, dc := range grouped.Domains {
			fmt.Fprintf(deps.Stdout, "  %s\t%d\n", dc.Domain, dc.Count)
		}
	}

	return crawlErr
}

// newLogger returns a text logger writing to w at Info level, or Debug
// level when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
