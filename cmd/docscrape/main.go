package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/crawl"
	"github.com/fwojciec/docscrape/fs"
	"github.com/fwojciec/docscrape/goquery"
	"github.com/fwojciec/docscrape/htmltomarkdown"
	dshttp "github.com/fwojciec/docscrape/http"
	dslog "github.com/fwojciec/docscrape/slog"
	"github.com/fwojciec/docscrape/sqlite"
	"github.com/fwojciec/docscrape/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for run history. Set before calling Run().
	DBPath string

	// Directory archives are written to. Set before calling Run().
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionService docscrape.SessionService
	ArchiveStore   docscrape.ArchiveStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docscrape"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docscrape --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSCRAPE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SessionService = sqlite.NewSessionService(m.DB)
	m.ArchiveStore = dslog.NewLoggingArchiveStore(fs.NewStore(m.DataDir), logger)
	deps.DB = m.DB
	deps.Sessions = m.SessionService
	deps.Archives = m.ArchiveStore

	if cmd == "scrape" || cmd == "serve" {
		patterns, generic := cli.Scrape.Filter, cli.Scrape.Generic
		if cmd == "serve" {
			patterns, generic = cli.Serve.Filter, cli.Serve.Generic
		}
		filter, err := compileFilter(patterns)
		if err != nil {
			return err
		}

		fetcher := dslog.NewLoggingFetcher(dshttp.NewFetcher(), logger)
		defer fetcher.Close()

		var extractor docscrape.Extractor = goquery.NewExtractor()
		if generic {
			extractor = trafilatura.NewExtractor(htmltomarkdown.NewConverter())
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:   fetcher,
			Collector: goquery.NewCollector(),
			Extractor: extractor,
			Archives:  deps.Archives,
			Sitemaps:  dshttp.NewSitemapSource(nil),
			Filter:    filter,
			Sessions:  deps.Sessions,
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

// compileFilter compiles include patterns into a URL filter.
// Returns nil when no patterns are given.
func compileFilter(patterns []string) (*docscrape.URLFilter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	filter := &docscrape.URLFilter{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, docscrape.Errorf(docscrape.EINVALID, "invalid filter pattern %q: %v", p, err)
		}
		filter.Include = append(filter.Include, re)
	}
	return filter, nil
}

func defaultDBPath() string {
	if path := os.Getenv("DOCSCRAPE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docscrape.db"
	}
	dir := filepath.Join(home, ".docscrape")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docscrape.db")
}

func defaultDataDir() string {
	if dir := os.Getenv("DOCSCRAPE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, ".docscrape", "downloads")
}
