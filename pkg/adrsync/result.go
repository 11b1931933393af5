package adrsync

import (
	"fmt"
	"strings"
	"time"

	"adrsync/pkg/git"
	"adrsync/pkg/github"
)

// Outcome is the terminal state of one repository run
type Outcome string

const (
	// OutcomeSkipped means the branch already had the desired content
	OutcomeSkipped Outcome = "skipped"
	// OutcomeCommitted means a commit was created and pushed
	OutcomeCommitted Outcome = "committed"
	// OutcomeFailed means a stage failed; see RunResult.Stage
	OutcomeFailed Outcome = "failed"
	// OutcomePlanned means a dry run found changes it would have committed
	OutcomePlanned Outcome = "planned"
)

// RunResult reports what happened to one repository
type RunResult struct {
	Repository     string
	Outcome        Outcome
	Stage          Stage
	Err            error
	BranchAction   git.BranchAction
	ReadmeChanged  bool
	CommitHash     string
	PullRequest    *github.PullRequest
	PullRequestErr error
	Duration       time.Duration
}

// Failed reports whether the run ended in OutcomeFailed
func (r RunResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

func (r RunResult) String() string {
	switch r.Outcome {
	case OutcomeFailed:
		return fmt.Sprintf("%s: failed at %s: %v", r.Repository, r.Stage, r.Err)
	case OutcomeCommitted:
		s := fmt.Sprintf("%s: committed %s", r.Repository, shortHash(r.CommitHash))
		if r.PullRequest != nil && r.PullRequest.URL != "" {
			s += ", pull request " + r.PullRequest.URL
		} else if r.PullRequestErr != nil {
			s += ", no pull request"
		}
		return s
	default:
		return fmt.Sprintf("%s: %s", r.Repository, r.Outcome)
	}
}

// Report collects the results of a batch in processing order
type Report struct {
	Results   []RunResult
	Cancelled bool
}

// Add appends a result
func (r *Report) Add(result RunResult) {
	r.Results = append(r.Results, result)
}

// Count returns how many results ended with outcome
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the failed results
func (r *Report) Failures() []RunResult {
	var failed []RunResult
	for _, result := range r.Results {
		if result.Failed() {
			failed = append(failed, result)
		}
	}
	return failed
}

// Err returns a PartialFailureError when any repository failed
func (r *Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	failed := make(map[string]error, len(failures))
	for _, result := range failures {
		failed[result.Repository] = result.Err
	}

	var succeeded []string
	for _, result := range r.Results {
		if _, ok := failed[result.Repository]; !ok {
			succeeded = append(succeeded, result.Repository)
		}
	}
	return NewPartialFailureError(succeeded, failed)
}

// Summary is a one-line count of outcomes
func (r *Report) Summary() string {
	parts := []string{
		fmt.Sprintf("%d committed", r.Count(OutcomeCommitted)),
		fmt.Sprintf("%d skipped", r.Count(OutcomeSkipped)),
		fmt.Sprintf("%d failed", r.Count(OutcomeFailed)),
	}
	if n := r.Count(OutcomePlanned); n > 0 {
		parts = append(parts, fmt.Sprintf("%d planned", n))
	}

	noun := "repositories"
	if len(r.Results) == 1 {
		noun = "repository"
	}

	summary := fmt.Sprintf("%d %s: %s", len(r.Results), noun, strings.Join(parts, ", "))
	if r.Cancelled {
		summary += " (cancelled)"
	}
	return summary
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
