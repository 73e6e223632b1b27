package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/mdmirror"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Index.FindRuns(deps.Ctx, mdmirror.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mdmirror.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Mirror a site with --index-db to record one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  saved %d, failed %d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), runStatus(r), r.Saved, r.Failed, r.SeedURL)
	}

	return nil
}

func runStatus(r *mdmirror.Run) string {
	if r.FinishedAt.IsZero() {
		return "unfinished"
	}
	return "took " + r.FinishedAt.Sub(r.StartedAt).String()
}
