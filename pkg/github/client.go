package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"adrsync/pkg/log"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client  *github.Client
	limiter *RateLimiter
	retry   *RetryConfig
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// NewClient creates a new GitHub API client. An empty token gives an
// unauthenticated client; apiURL points at a GitHub Enterprise API root and
// defaults to api.github.com.
func NewClient(token, apiURL string, opts ...ClientOption) (*Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(httpClient)
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		gh.BaseURL = baseURL
	}

	c := &Client{
		client:  gh,
		limiter: NewRateLimiter(nil),
		retry:   DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RateLimiter returns the limiter pacing this client
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// do runs one API call under the rate limiter and retry policy
func (c *Client) do(ctx context.Context, resource string, call func() (*github.Response, error)) error {
	return WithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := call()
		if resp != nil && resp.Rate.Limit > 0 {
			c.limiter.UpdateLimits(resp.Rate.Remaining, resp.Rate.Reset.Time)
		}
		if err != nil {
			wrapped := WrapGitHubError(err, resource)
			if wrapped.IsRetryable() {
				log.Debug("retryable GitHub error", "resource", resource, "type", wrapped.Type, "error", err)
			}
			return wrapped
		}
		return nil
	}, c.retry)
}

// GetRepository retrieves a repository by owner and name
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	var repo *github.Repository

	err := c.do(ctx, fmt.Sprintf("repository %s/%s", owner, name), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		repo, resp, err = c.client.Repositories.Get(ctx, owner, name)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return convertGitHubRepository(repo), nil
}

// CreatePullRequest opens a pull request
func (c *Client) CreatePullRequest(ctx context.Context, owner, name string, opts PullRequestOptions) (*PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Body:  github.String(opts.Body),
	}

	var pr *github.PullRequest

	resource := fmt.Sprintf("pull request %s/%s %s->%s", owner, name, opts.Head, opts.Base)
	err := c.do(ctx, resource, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		pr, resp, err = c.client.PullRequests.Create(ctx, owner, name, newPR)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return convertGitHubPullRequest(pr), nil
}

// FindPullRequest returns the open pull request for head, or nil if none is open.
// head may be a bare branch name or "owner:branch".
func (c *Client) FindPullRequest(ctx context.Context, owner, name, head string) (*PullRequest, error) {
	if !strings.Contains(head, ":") {
		head = owner + ":" + head
	}

	var prs []*github.PullRequest

	err := c.do(ctx, fmt.Sprintf("pull request %s/%s %s", owner, name, head), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		prs, resp, err = c.client.PullRequests.List(ctx, owner, name, &github.PullRequestListOptions{
			State:       "open",
			Head:        head,
			ListOptions: github.ListOptions{PerPage: 1},
		})
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	if len(prs) == 0 {
		return nil, nil
	}
	return convertGitHubPullRequest(prs[0]), nil
}

// ValidateToken checks the token against the authenticated user endpoint
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	var user *github.User
	var scopeHeader string

	err := c.do(ctx, "user", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		user, resp, err = c.client.Users.Get(ctx, "")
		if resp != nil {
			scopeHeader = resp.Header.Get("X-OAuth-Scopes")
		}
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate GitHub token: %w", err)
	}

	info := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: parseScopes(scopeHeader),
	}

	if err := validateScopes(info.Scopes); err != nil {
		return info, err
	}
	return info, nil
}

func convertGitHubRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:            repo.GetID(),
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		DefaultBranch: repo.GetDefaultBranch(),
		Private:       repo.GetPrivate(),
		Archived:      repo.GetArchived(),
		HTMLURL:       repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
	}
}

func convertGitHubPullRequest(pr *github.PullRequest) *PullRequest {
	return &PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		State:  pr.GetState(),
		Title:  pr.GetTitle(),
		Head:   pr.GetHead().GetRef(),
		Base:   pr.GetBase().GetRef(),
	}
}
