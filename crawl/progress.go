package crawl

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docscrape"
)

// EventKind indicates the type of progress event.
type EventKind int

// Progress event kinds, in the order they can occur during a run. The
// artifact-availability sentinel is deliberately not an Event: it is emitted
// by the transport layer after persistence so consumers cannot mistake it
// for routine progress output.
const (
	// EventTOCFetch is emitted before the table of contents is fetched.
	EventTOCFetch EventKind = iota
	// EventAborted is emitted when discovery fails; the run performs no
	// page work and no persistence after it.
	EventAborted
	// EventDiscovered reports the number of unique page URLs found.
	EventDiscovered
	// EventCrawlStarted is emitted once before the page loop.
	EventCrawlStarted
	// EventPageStarted is emitted as each page begins processing.
	EventPageStarted
	// EventPageSkipped reports a URL already visited in this run.
	EventPageSkipped
	// EventPageFailed reports a page whose fetch exhausted its retries.
	EventPageFailed
	// EventPageEmpty reports a page that yielded no extractable content.
	EventPageEmpty
	// EventPageExtracted reports a successfully extracted page.
	EventPageExtracted
	// EventCrawlFinished is emitted after the page loop completes.
	EventCrawlFinished
	// EventArchiveSaved reports successful persistence of the artifact.
	EventArchiveSaved
	// EventSummary carries the final run totals and the failure list.
	EventSummary
)

// Event reports progress during a crawl. Events are emitted in real time as
// each page completes, never buffered until the end.
type Event struct {
	Kind     EventKind
	URL      string
	Title    string
	Name     string // archive name, set on EventArchiveSaved
	Index    int    // 1-based position in the discovered list
	Total    int
	Pages    int // visited pages, set on EventSummary
	Words    int // total extracted words, set on EventSummary
	Failures []docscrape.Failure
	Err      error
}

// ProgressFunc is a callback for reporting crawl progress.
// Emission is serialized: the crawler never calls it concurrently.
type ProgressFunc func(event Event)

// FormatEvent renders an event as the human-readable progress line(s) sent
// over the progress stream.
func FormatEvent(e Event) string {
	switch e.Kind {
	case EventTOCFetch:
		return fmt.Sprintf("Fetching Table of Contents from: %s\n", e.URL)
	case EventAborted:
		return "Failed to fetch Table of Contents. Aborting.\n"
	case EventDiscovered:
		return fmt.Sprintf("Found %d unique page URLs in the Table of Contents.\n", e.Total)
	case EventCrawlStarted:
		return fmt.Sprintf("\nStarting scrape of %d pages.\n", e.Total)
	case EventPageStarted:
		return fmt.Sprintf("--- Processing Page %d/%d: %s ---\n", e.Index, e.Total, e.URL)
	case EventPageSkipped:
		return fmt.Sprintf("Skipping already visited URL: %s\n", e.URL)
	case EventPageFailed:
		return fmt.Sprintf("Failed to retrieve page content for %s. Skipping.\n", e.URL)
	case EventPageEmpty:
		return fmt.Sprintf("Could not extract content from %s.\n", e.URL)
	case EventPageExtracted:
		return fmt.Sprintf("Successfully extracted content from '%s'.\n", e.Title)
	case EventCrawlFinished:
		return "\nScraping finished.\n"
	case EventArchiveSaved:
		return fmt.Sprintf("Successfully saved results to %s\n", e.Name)
	case EventSummary:
		return formatSummary(e)
	}
	return ""
}

// formatSummary renders the final summary block, including the failure list
// with error text when any page failed.
func formatSummary(e Event) string {
	var b strings.Builder
	b.WriteString("\n--- SCRAPING COMPLETE ---\n")
	fmt.Fprintf(&b, "Total pages processed: %d\n", e.Pages)
	fmt.Fprintf(&b, "Total content extracted: ~%d words\n", e.Words)
	if len(e.Failures) > 0 {
		fmt.Fprintf(&b, "Failed pages: %d\n", len(e.Failures))
		for _, f := range e.Failures {
			fmt.Fprintf(&b, "- URL: %s, Error: %s\n", f.URL, f.Error)
		}
	} else {
		b.WriteString("No issues encountered during the scraping session.\n")
	}
	return b.String()
}
