package adrsync

import (
	"context"
	"fmt"
	"io"

	"adrsync/pkg/log"
)

// Runner drives a Worker over an ordered list of repositories
type Runner struct {
	worker *Worker
	out    io.Writer
}

// NewRunner creates a Runner writing progress to out
func NewRunner(worker *Worker, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{worker: worker, out: out}
}

// Run processes specs in order. A failing repository never stops the batch;
// a cancelled context stops it between repositories.
func (r *Runner) Run(ctx context.Context, specs []RepositorySpec, tmpl *Template) *Report {
	report := &Report{}

	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			log.Warn("batch cancelled", "processed", i, "remaining", len(specs)-i, "error", err)
			break
		}

		fmt.Fprintf(r.out, "=== Processing %s ===\n", spec.FullName())
		report.Add(r.worker.Run(ctx, spec, tmpl))
	}

	fmt.Fprintln(r.out)
	for _, result := range report.Results {
		fmt.Fprintln(r.out, result.String())
	}
	fmt.Fprintln(r.out, report.Summary())
	fmt.Fprintln(r.out, "Done.")

	return report
}
