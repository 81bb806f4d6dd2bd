package main

import (
	"fmt"

	"github.com/fwojciec/docscrape"
	"github.com/fwojciec/docscrape/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	rc, err := deps.Archives.OpenArchive(deps.Ctx, c.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscrape.ErrorMessage(err))
		return err
	}
	defer rc.Close()

	n, err := fs.ExportArchive(rc, c.Dest)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", n, c.Dest)
	return nil
}
