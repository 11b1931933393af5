package github

import "context"

// APIClient defines the interface for GitHub API operations
type APIClient interface {
	// GetRepository retrieves a repository by owner and name
	GetRepository(ctx context.Context, owner, name string) (*Repository, error)

	// CreatePullRequest opens a pull request from opts.Head into opts.Base
	CreatePullRequest(ctx context.Context, owner, name string, opts PullRequestOptions) (*PullRequest, error)

	// FindPullRequest returns the open pull request whose head is the given
	// branch, or nil when there is none
	FindPullRequest(ctx context.Context, owner, name, head string) (*PullRequest, error)
}

var _ APIClient = (*Client)(nil)
