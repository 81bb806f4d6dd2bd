// Package crawl provides the crawl orchestration for docscrape.
// It coordinates URL discovery, per-page fetching with bounded retries,
// content extraction, progress reporting, and final persistence.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docscrape"
	"golang.org/x/time/rate"
)

// DefaultPageInterval is the politeness delay between page fetches.
const DefaultPageInterval = 1 * time.Second

// Crawler orchestrates one or more scrape runs. A run is strictly
// sequential: fetch, extract and accumulate never overlap across pages,
// which keeps records in discovery order and self-throttles load on the
// remote server. Per-run state lives inside Run, so a single Crawler may
// serve independent runs.
type Crawler struct {
	Fetcher   docscrape.Fetcher
	Collector docscrape.LinkCollector
	Extractor docscrape.Extractor
	Archives  docscrape.ArchiveWriter

	// Sitemaps, when set, is consulted as a discovery fallback if the
	// table of contents yields zero URLs.
	Sitemaps docscrape.URLSource

	// Filter, when set, restricts discovered URLs.
	Filter *docscrape.URLFilter

	// Sessions, when set, records completed runs. Recording is
	// best-effort: a history write error is logged, never fatal.
	Sessions docscrape.SessionService

	Logger *slog.Logger

	// RetryDelays overrides the pauses between fetch attempts.
	// Defaults to DefaultRetryDelays (3 attempts, fixed 2s pauses).
	RetryDelays []time.Duration

	// PageInterval is the politeness delay between page fetches.
	// Zero means DefaultPageInterval; a negative value disables the
	// delay (used in tests).
	PageInterval time.Duration
}

// Result holds the outcome of a completed run.
type Result struct {
	ArchiveName string
	Discovered  int
	Scraped     int
	Failed      int
	Words       int
}

// Run executes a crawl: discovers page URLs from tocURL, visits each at most
// once, accumulates page and failure records, persists the artifact under
// archiveName, and reports progress through the callback as each page
// completes.
//
// Per-page failures never abort the run. Discovery failure aborts before any
// page work with EUNAVAILABLE and no persistence; a persistence failure is
// returned after the page loop with no cleanup of partial output.
func (c *Crawler) Run(ctx context.Context, tocURL, archiveName string, progress ProgressFunc) (*Result, error) {
	emit := func(e Event) {
		if progress != nil {
			progress(e)
		}
	}

	session := docscrape.NewSession(tocURL)

	emit(Event{Kind: EventTOCFetch, URL: tocURL})

	urls, err := c.discover(ctx, session, tocURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		emit(Event{Kind: EventAborted, URL: tocURL})
		return nil, docscrape.Errorf(docscrape.EUNAVAILABLE, "no content pages discovered from %s", tocURL)
	}

	total := len(urls)
	emit(Event{Kind: EventDiscovered, Total: total})
	emit(Event{Kind: EventCrawlStarted, Total: total})

	var limiter *rate.Limiter
	if interval := c.pageInterval(); interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	visited := NewVisitedSet()

	for i, url := range urls {
		if visited.Seen(url) {
			emit(Event{Kind: EventPageSkipped, URL: url, Index: i + 1, Total: total})
			continue
		}
		visited.Add(url)

		emit(Event{Kind: EventPageStarted, URL: url, Index: i + 1, Total: total})

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		html, err := c.fetch(ctx, url)
		if err != nil {
			session.AddFailure(url, err)
			emit(Event{Kind: EventPageFailed, URL: url, Index: i + 1, Total: total, Err: err})
			continue
		}

		rec, err := c.Extractor.Extract(html, url)
		if err != nil || rec == nil {
			emit(Event{Kind: EventPageEmpty, URL: url, Index: i + 1, Total: total, Err: err})
			continue
		}

		session.AddPage(rec)
		emit(Event{Kind: EventPageExtracted, URL: url, Title: rec.Title, Index: i + 1, Total: total})
	}

	emit(Event{Kind: EventCrawlFinished})

	end := time.Now()
	archive := docscrape.NewArchive(session, end)
	if err := c.Archives.WriteArchive(ctx, archiveName, archive); err != nil {
		return nil, fmt.Errorf("saving results to %s: %w", archiveName, err)
	}
	emit(Event{Kind: EventArchiveSaved, Name: archiveName})

	emit(Event{
		Kind:     EventSummary,
		Pages:    visited.Len(),
		Words:    session.TotalWords,
		Failures: session.Failures,
	})

	c.record(ctx, session, archiveName, end)

	return &Result{
		ArchiveName: archiveName,
		Discovered:  total,
		Scraped:     len(session.Pages),
		Failed:      len(session.Failures),
		Words:       session.TotalWords,
	}, nil
}

// discover fetches the table of contents and collects content-page URLs,
// falling back to sitemap discovery when the TOC yields nothing.
func (c *Crawler) discover(ctx context.Context, session *docscrape.Session, tocURL string) ([]string, error) {
	var urls []string

	html, tocErr := c.fetch(ctx, tocURL)
	if tocErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	} else {
		var err error
		urls, err = c.Collector.Collect(html, tocURL)
		if err != nil {
			return nil, err
		}
	}

	if len(urls) == 0 && c.Sitemaps != nil {
		discovered, err := c.Sitemaps.Discover(ctx, tocURL, c.Filter)
		if err != nil {
			c.log("sitemap discovery failed", "url", tocURL, "err", err)
		} else if len(discovered) > 0 {
			return discovered, nil
		}
	}

	if c.Filter != nil {
		var filtered []string
		for _, u := range urls {
			if c.Filter.Match(u) {
				filtered = append(filtered, u)
			}
		}
		urls = filtered
	}

	// A TOC fetch failure is recorded only when discovery has nothing to
	// offer: the run then aborts without persistence, so the failure log
	// never carries a non-content URL. When the sitemap fallback fills the
	// URL list the TOC failure is not a page failure at all.
	if len(urls) == 0 && tocErr != nil {
		session.AddFailure(tocURL, tocErr)
	}

	return urls, nil
}

// fetch retrieves a URL with the bounded fixed-delay retry policy.
func (c *Crawler) fetch(ctx context.Context, url string) (string, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	var logger LogFunc
	if c.Logger != nil {
		logger = func(format string, args ...any) {
			c.Logger.Debug(fmt.Sprintf(format, args...))
		}
	}
	return FetchWithRetryDelays(ctx, url, c.Fetcher.Fetch, logger, delays)
}

// record writes the run to the history store, if one is configured.
func (c *Crawler) record(ctx context.Context, session *docscrape.Session, archiveName string, end time.Time) {
	if c.Sessions == nil {
		return
	}
	rec := &docscrape.SessionRecord{
		TOCURL:         session.TOCURL,
		ArchiveName:    archiveName,
		StartedAt:      session.StartTime,
		FinishedAt:     end,
		PagesScraped:   len(session.Pages),
		WordsExtracted: session.TotalWords,
		FailedPages:    len(session.Failures),
	}
	if err := c.Sessions.CreateSession(ctx, rec, session.Failures); err != nil {
		c.log("recording session history failed", "archive", archiveName, "err", err)
	}
}

func (c *Crawler) pageInterval() time.Duration {
	if c.PageInterval == 0 {
		return DefaultPageInterval
	}
	if c.PageInterval < 0 {
		return 0
	}
	return c.PageInterval
}

func (c *Crawler) log(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}
