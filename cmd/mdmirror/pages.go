package main

import (
	"fmt"

	"github.com/fwojciec/mdmirror"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	run, err := deps.Index.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mdmirror.ErrorMessage(err))
		return err
	}

	pages, err := deps.Index.FindPages(deps.Ctx, mdmirror.PageFilter{
		RunID:      &run.ID,
		FailedOnly: c.Failed,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mdmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s into %s\n", run.SeedURL, run.OutputDir)
	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages recorded.")
		return nil
	}

	for _, p := range pages {
		if p.Error != "" {
			fmt.Fprintf(deps.Stdout, "%4d  FAILED  %s: %s\n", p.Position, p.URL, p.Error)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%4d  %s  %s\n", p.Position, p.Path, p.URL)
	}

	return nil
}
