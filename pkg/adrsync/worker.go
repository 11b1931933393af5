package adrsync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"adrsync/pkg/git"
	"adrsync/pkg/github"
	"adrsync/pkg/log"
)

// Options configures a Worker
type Options struct {
	WorkDir       string
	CommitMessage string
	PRTitle       string
	PRBody        string
	Author        git.Author
	ForcePush     bool
	DryRun        bool
	Cleanup       bool
}

// Worker runs the bootstrap sequence against one repository at a time
type Worker struct {
	vcs     VersionControlClient
	hosting HostingClient
	opts    Options
	out     io.Writer
}

// NewWorker creates a Worker. Progress lines are written to out.
func NewWorker(vcs VersionControlClient, hosting HostingClient, opts Options, out io.Writer) *Worker {
	if out == nil {
		out = io.Discard
	}
	return &Worker{
		vcs:     vcs,
		hosting: hosting,
		opts:    opts,
		out:     out,
	}
}

// Run bootstraps spec. Every failure is captured in the returned RunResult.
func (w *Worker) Run(ctx context.Context, spec RepositorySpec, tmpl *Template) RunResult {
	start := time.Now()
	result := w.run(ctx, spec, tmpl)
	result.Duration = time.Since(start)

	if result.Failed() {
		log.Error("repository failed", "repository", result.Repository, "stage", result.Stage, "error", result.Err)
		fmt.Fprintf(w.out, "Failed %s at %s: %v\n", result.Repository, result.Stage, result.Err)
	}
	return result
}

func (w *Worker) run(ctx context.Context, spec RepositorySpec, tmpl *Template) RunResult {
	repo := spec.FullName()
	result := RunResult{Repository: repo}
	logger := log.With("repository", repo)

	fail := func(stage Stage, err error) RunResult {
		result.Outcome = OutcomeFailed
		result.Stage = stage
		result.Err = &StageError{Repository: repo, Stage: stage, Err: err}
		return result
	}

	dir := filepath.Join(w.opts.WorkDir, spec.Name)
	if err := os.RemoveAll(dir); err != nil {
		return fail(StageClone, fmt.Errorf("failed to remove stale working copy %s: %w", dir, err))
	}
	if err := os.MkdirAll(w.opts.WorkDir, 0755); err != nil {
		return fail(StageClone, fmt.Errorf("failed to create work directory: %w", err))
	}
	if w.opts.Cleanup {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				logger.Warnw("failed to remove working copy", "dir", dir, "error", err)
			}
		}()
	}

	logger.Infow("cloning", "url", spec.CloneURL, "dir", dir)
	wc, err := w.vcs.Clone(ctx, spec.CloneURL, dir)
	if err != nil {
		return fail(StageClone, err)
	}

	action, err := wc.EnsureBranch(spec.Branch)
	if err != nil {
		return fail(StageBranch, err)
	}
	result.BranchAction = action
	logger.Debugw("branch ready", "branch", spec.Branch, "action", action)

	if err := materializeTemplate(wc, tmpl); err != nil {
		return fail(StageMaterialize, err)
	}

	changed, err := patchReadmeFile(wc)
	if err != nil {
		return fail(StageReadme, err)
	}
	result.ReadmeChanged = changed
	if changed {
		logger.Debugw("appended ADR section to README")
	}

	paths := []string{ADRFile}
	if changed {
		paths = append(paths, ReadmeFile)
	}
	if err := wc.Stage(paths...); err != nil {
		return fail(StageStage, err)
	}

	staged, err := wc.HasStagedChanges()
	if err != nil {
		return fail(StageStage, err)
	}
	if !staged {
		result.Outcome = OutcomeSkipped
		fmt.Fprintf(w.out, "No changes to commit for %s.\n", repo)
		return result
	}

	if w.opts.DryRun {
		result.Outcome = OutcomePlanned
		fmt.Fprintf(w.out, "Dry run: would commit and push %s to %s.\n", repo, spec.Branch)
		return result
	}

	// an interrupted run must not leave a commit it will never push
	if err := ctx.Err(); err != nil {
		return fail(StageCommit, err)
	}

	hash, err := wc.Commit(w.opts.CommitMessage, w.opts.Author)
	if err != nil {
		return fail(StageCommit, err)
	}
	result.CommitHash = hash
	logger.Infow("committed", "commit", hash)

	if err := wc.Push(ctx, git.DefaultRemote, spec.Branch, w.opts.ForcePush); err != nil {
		return fail(StagePush, err)
	}
	fmt.Fprintf(w.out, "Pushed %s to %s (%s).\n", repo, spec.Branch, shortHash(hash))

	result.Outcome = OutcomeCommitted

	pr, err := w.openPullRequest(ctx, spec)
	if err != nil {
		result.PullRequestErr = err
		logger.Warnw("pull request not opened", "error", err)
		fmt.Fprintf(w.out, "Could not open a pull request for %s: %v\n", repo, err)
		return result
	}
	result.PullRequest = pr
	if pr.URL != "" {
		fmt.Fprintf(w.out, "Pull request: %s\n", pr.URL)
	}
	return result
}

// openPullRequest tries each base candidate in order. A pull request that
// already exists for the branch counts as success.
func (w *Worker) openPullRequest(ctx context.Context, spec RepositorySpec) (*github.PullRequest, error) {
	prErr := &PullRequestError{Repository: spec.FullName(), Head: spec.Branch}

	for _, base := range spec.BaseBranches {
		pr, err := w.hosting.CreatePullRequest(ctx, spec.Owner, spec.Name, github.PullRequestOptions{
			Title: w.opts.PRTitle,
			Body:  w.opts.PRBody,
			Head:  spec.Branch,
			Base:  base,
		})
		if err == nil {
			log.Info("opened pull request", "repository", spec.FullName(), "base", base, "number", pr.Number)
			return pr, nil
		}

		if github.IsAlreadyExists(err) {
			return w.existingPullRequest(ctx, spec, base), nil
		}

		prErr.Attempts = append(prErr.Attempts, PullRequestAttempt{Base: base, Err: err})
		if ctx.Err() != nil {
			break
		}
		log.Debug("pull request against base failed", "repository", spec.FullName(), "base", base, "error", err)
	}

	return nil, prErr
}

// existingPullRequest looks up the already-open pull request. A failed
// lookup still yields a pull request describing head and base.
func (w *Worker) existingPullRequest(ctx context.Context, spec RepositorySpec, base string) *github.PullRequest {
	pr, err := w.hosting.FindPullRequest(ctx, spec.Owner, spec.Name, spec.Branch)
	if err != nil || pr == nil {
		if err != nil {
			log.Warn("failed to look up existing pull request", "repository", spec.FullName(), "error", err)
		}
		return &github.PullRequest{State: "open", Head: spec.Branch, Base: base}
	}

	log.Info("pull request already open", "repository", spec.FullName(), "number", pr.Number)
	return pr
}
