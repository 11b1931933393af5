package adrsync

import (
	"context"

	"adrsync/pkg/git"
	"adrsync/pkg/github"
)

// VersionControlClient produces working copies
type VersionControlClient interface {
	Clone(ctx context.Context, url, dir string) (WorkingCopy, error)
}

// WorkingCopy is a cloned repository the Worker operates on
type WorkingCopy interface {
	EnsureBranch(branch string) (git.BranchAction, error)
	Stage(paths ...string) error
	HasStagedChanges() (bool, error)
	Commit(message string, author git.Author) (string, error)
	Push(ctx context.Context, remote, branch string, force bool) error
	// ReadFile returns the content at a slash-separated path and whether it exists
	ReadFile(rel string) ([]byte, bool, error)
	WriteFile(rel string, data []byte) error
}

// HostingClient is the GitHub API surface the Worker and the CLI use
type HostingClient = github.APIClient

// GitClient clones through go-git
type GitClient struct {
	// Token authenticates HTTPS remotes
	Token string
}

// NewGitClient returns a VersionControlClient backed by go-git
func NewGitClient(token string) *GitClient {
	return &GitClient{Token: token}
}

// Clone implements VersionControlClient
func (c *GitClient) Clone(ctx context.Context, url, dir string) (WorkingCopy, error) {
	repo, err := git.Clone(ctx, url, dir, git.CloneOptions{Token: c.Token})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

var (
	_ VersionControlClient = (*GitClient)(nil)
	_ WorkingCopy          = (*git.Repository)(nil)
	_ HostingClient        = (*github.Client)(nil)
)
