package adrsync

import (
	"fmt"
	"sort"
	"strings"
)

// Stage names the step of a run that failed
type Stage string

const (
	StageClone       Stage = "clone"
	StageBranch      Stage = "branch"
	StageMaterialize Stage = "materialize"
	StageReadme      Stage = "readme"
	StageStage       Stage = "stage"
	StageCommit      Stage = "commit"
	StagePush        Stage = "push"
)

// StageError is a per-repository failure at a given stage
type StageError struct {
	Repository string
	Stage      Stage
	Err        error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Repository, e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.Err
}

// PreconditionError stops a batch before any repository is touched
type PreconditionError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("precondition failed: %s: %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("precondition failed: %s: %s", e.Reason, e.Path)
}

// Unwrap returns the underlying error
func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// PullRequestAttempt records one base branch tried when opening a pull request
type PullRequestAttempt struct {
	Base string
	Err  error
}

// PullRequestError means no base candidate accepted the pull request. The
// branch is still pushed, so it does not fail the run.
type PullRequestError struct {
	Repository string
	Head       string
	Attempts   []PullRequestAttempt
}

// Error implements the error interface
func (e *PullRequestError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("could not open pull request for %s from %s: no base branches configured", e.Repository, e.Head)
	}

	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.Base, attempt.Err))
	}
	return fmt.Sprintf("could not open pull request for %s from %s (%s)", e.Repository, e.Head, strings.Join(parts, "; "))
}

// Unwrap returns the error of every attempt
func (e *PullRequestError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		errs = append(errs, attempt.Err)
	}
	return errs
}

// PartialFailureError represents a batch where some repositories failed
type PartialFailureError struct {
	Succeeded []string         `json:"succeeded"`
	Failed    map[string]error `json:"failed"`
	Message   string           `json:"message"`
}

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("partial failure: %d succeeded, %d failed", len(e.Succeeded), len(e.Failed))
}

// NewPartialFailureError creates a new partial failure error
func NewPartialFailureError(succeeded []string, failed map[string]error) *PartialFailureError {
	message := fmt.Sprintf("%d of %d repositories failed: %s",
		len(failed), len(succeeded)+len(failed), strings.Join(sortedKeys(failed), ", "))

	return &PartialFailureError{
		Succeeded: succeeded,
		Failed:    failed,
		Message:   message,
	}
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
