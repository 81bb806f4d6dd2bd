package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/crawl"
)

// Run executes the scrape command: a one-shot crawl with progress printed
// to stdout.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	name := docscrape.NormalizeArchiveName(c.Output)

	result, err := deps.Crawler.Run(deps.Ctx, c.URL, name, func(e crawl.Event) {
		io.WriteString(deps.Stdout, crawl.FormatEvent(e))
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Archive: %s\n", result.ArchiveName)
	return nil
}
