package main

import (
	"fmt"

	"github.com/fwojciec/docscrape"
)

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	filter := docscrape.SessionFilter{Limit: c.Limit}
	if c.TOCURL != "" {
		filter.TOCURL = &c.TOCURL
	}

	sessions, err := deps.Sessions.FindSessions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscrape.ErrorMessage(err))
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'docscrape scrape' to start one.")
		return nil
	}

	for _, s := range sessions {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  pages=%d words=%d failed=%d\n",
			s.StartedAt.Format("2006-01-02 15:04"), s.TOCURL, s.ArchiveName,
			s.PagesScraped, s.WordsExtracted, s.FailedPages)
	}

	return nil
}
