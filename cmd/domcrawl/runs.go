package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/domcrawl"
	"github.com/fwojciec/domcrawl/fs"
	"github.com/rodaine/table"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.show(deps)
	}

	filter := domcrawl.RunFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.StartURL = &c.URL
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domcrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'domcrawl crawl' to start one.")
		return nil
	}

	tbl := table.New("ID", "Created", "URL", "Pages", "Failed", "Domains", "Duration").WithWriter(deps.Stdout)
	for _, r := range runs {
		tbl.AddRow(r.ID, r.CreatedAt.Local().Format(time.DateTime), r.StartURL,
			r.PagesVisited, r.PagesFailed, r.DomainCount, r.Duration)
	}
	tbl.Print()
	return nil
}

// show prints the domain counts of a single run in the tsv output format.
func (c *RunsCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domcrawl.ErrorMessage(err))
		return err
	}

	domains, err := deps.Runs.FindRunDomains(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domcrawl.ErrorMessage(err))
		return err
	}

	content, err := fs.FormatResult(&domcrawl.Result{Domains: domains}, fs.FormatTSV)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "# Run %s: %s (%d pages, digest %s)\n", run.ID, run.StartURL, run.PagesVisited, run.Digest)
	fmt.Fprint(deps.Stdout, content)
	return nil
}
