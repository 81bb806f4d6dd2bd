package main

import (
	"fmt"
	"os/signal"
	"syscall"

	dshttp "github.com/fwojciec/docscrape/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command: the web interface stays up until
// interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := dshttp.NewServer()
	srv.Addr = c.Addr
	srv.Crawler = deps.Crawler
	srv.Archives = deps.Archives
	srv.Sessions = deps.Sessions
	srv.Logger = deps.Logger

	if err := srv.Open(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})

	return g.Wait()
}
