package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/crawl"
	"github.com/fwojciec/docscrape/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Sessions docscrape.SessionService
	Archives docscrape.ArchiveStore
	Crawler  *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape   ScrapeCmd   `cmd:"" help:"Scrape a documentation site from its table of contents"`
	Serve    ServeCmd    `cmd:"" help:"Run the web interface"`
	Sessions SessionsCmd `cmd:"" help:"List past scrape runs"`
	Export   ExportCmd   `cmd:"" help:"Export a stored archive to markdown files"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL     string   `arg:"" help:"Table of contents URL"`
	Output  string   `arg:"" help:"Output archive name"`
	Generic bool     `short:"g" help:"Use readability-based extraction instead of structural selectors"`
	Filter  []string `short:"F" name:"filter" help:"Restrict pages by regex (repeatable)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `default:":5000" help:"Listen address"`
	Generic bool     `short:"g" help:"Use readability-based extraction instead of structural selectors"`
	Filter  []string `short:"F" name:"filter" help:"Restrict pages by regex (repeatable)"`
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct {
	TOCURL string `name:"toc-url" help:"Only runs for this table of contents URL"`
	Limit  int    `default:"20" help:"Maximum number of runs to list"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Archive string `arg:"" help:"Stored archive name"`
	Dest    string `arg:"" help:"Destination directory"`
}
