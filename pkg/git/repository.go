package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// DefaultRemote is the remote name created by Clone
const DefaultRemote = "origin"

// ErrNothingToCommit is returned by Commit when the index matches HEAD
var ErrNothingToCommit = errors.New("no staged changes to commit")

// Author is the identity recorded on commits
type Author struct {
	Name  string
	Email string
}

// BranchAction describes how EnsureBranch arrived on the branch
type BranchAction string

const (
	// BranchCreated means the branch was created from the current HEAD
	BranchCreated BranchAction = "created"
	// BranchTracked means the branch was created from an existing remote branch
	BranchTracked BranchAction = "tracked"
	// BranchSwitched means an existing local branch was checked out
	BranchSwitched BranchAction = "switched"
)

// Repository is a working copy opened through go-git
type Repository struct {
	dir  string
	repo *gogit.Repository
	auth transport.AuthMethod
}

// CloneOptions configures Clone
type CloneOptions struct {
	// Token authenticates HTTPS remotes; ignored for local paths
	Token string
}

// Clone clones url into dir. dir must not already contain a repository.
// An empty remote yields a fresh repository with origin pointing at url.
func Clone(ctx context.Context, url, dir string, opts CloneOptions) (*Repository, error) {
	auth := authFor(url, opts.Token)

	repo, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:        url,
		RemoteName: DefaultRemote,
		Auth:       auth,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		repo, err = initEmpty(url, dir)
		if err != nil {
			return nil, err
		}
		return &Repository{dir: dir, repo: repo, auth: auth}, nil
	}
	if err != nil {
		return nil, classifyRemoteError(err, "clone "+url)
	}

	return &Repository{dir: dir, repo: repo, auth: auth}, nil
}

func initEmpty(url, dir string) (*gogit.Repository, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", dir, err)
	}

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", dir, err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemote,
		URLs: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add remote %s: %w", DefaultRemote, err)
	}
	return repo, nil
}

// EnsureBranch leaves the working copy on branch. An existing local branch is
// checked out, a branch that only exists on origin is recreated locally from
// it, and otherwise the branch is created from HEAD. If creation fails the
// branch is assumed to exist and a plain checkout is attempted.
func (r *Repository) EnsureBranch(branch string) (BranchAction, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	local := plumbing.NewBranchReferenceName(branch)

	// Nothing to check out yet; the first commit lands on the branch.
	if _, err := r.repo.Head(); errors.Is(err, plumbing.ErrReferenceNotFound) {
		if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, local)); err != nil {
			return "", fmt.Errorf("failed to point HEAD at %s: %w", branch, err)
		}
		return BranchCreated, nil
	}

	if _, err := r.repo.Reference(local, true); err == nil {
		if err := worktree.Checkout(&gogit.CheckoutOptions{Branch: local}); err != nil {
			return "", fmt.Errorf("failed to checkout branch %s: %w", branch, err)
		}
		return BranchSwitched, nil
	}

	remote := plumbing.NewRemoteReferenceName(DefaultRemote, branch)
	if ref, err := r.repo.Reference(remote, true); err == nil {
		err := worktree.Checkout(&gogit.CheckoutOptions{
			Branch: local,
			Hash:   ref.Hash(),
			Create: true,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create branch %s from %s: %w", branch, remote.Short(), err)
		}
		return BranchTracked, nil
	}

	createErr := worktree.Checkout(&gogit.CheckoutOptions{Branch: local, Create: true})
	if createErr == nil {
		return BranchCreated, nil
	}

	if err := worktree.Checkout(&gogit.CheckoutOptions{Branch: local}); err != nil {
		return "", fmt.Errorf("failed to create branch %s (%v) and failed to switch to it: %w", branch, createErr, err)
	}
	return BranchSwitched, nil
}

// Stage adds the given paths, relative to the working copy root, to the index
func (r *Repository) Stage(paths ...string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := worktree.Add(filepath.ToSlash(p)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD
func (r *Repository) HasStagedChanges() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}

	for _, file := range status {
		if file.Staging != gogit.Unmodified && file.Staging != gogit.Untracked {
			return true, nil
		}
	}
	return false, nil
}

// Commit records the index as a new commit and returns its hash.
// It returns ErrNothingToCommit when nothing is staged.
func (r *Repository) Commit(message string, author Author) (string, error) {
	staged, err := r.HasStagedChanges()
	if err != nil {
		return "", err
	}
	if !staged {
		return "", ErrNothingToCommit
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return hash.String(), nil
}

// Push publishes branch to remote and records the remote as its upstream.
// With force set a diverged upstream branch is overwritten.
func (r *Repository) Push(ctx context.Context, remote, branch string, force bool) error {
	if remote == "" {
		remote = DefaultRemote
	}

	if _, err := r.repo.Remote(remote); err != nil {
		return fmt.Errorf("failed to get remote '%s': %w", remote, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	if force {
		refSpec = "+" + refSpec
	}

	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       r.auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return classifyRemoteError(err, "push "+branch)
	}

	err = r.repo.CreateBranch(&config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	})
	if err != nil && !errors.Is(err, gogit.ErrBranchExists) {
		return fmt.Errorf("failed to set upstream for %s: %w", branch, err)
	}

	return nil
}

// WriteFile writes data to a path relative to the working copy, creating parent directories
func (r *Repository) WriteFile(rel string, data []byte) error {
	path := filepath.Join(r.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// ReadFile reads a path relative to the working copy. A missing file yields
// nil content and no error.
func (r *Repository) ReadFile(rel string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, true, nil
}

// authFor returns token auth for HTTP(S) remotes only; go-git rejects
// basic auth on file and ssh transports.
func authFor(url, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil
	}
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
