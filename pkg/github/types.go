package github

// Repository represents a GitHub repository
type Repository struct {
	ID            int64  `json:"id"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Archived      bool   `json:"archived"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url"`
}

// PullRequest represents an opened pull request
type PullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"html_url"`
	State  string `json:"state"`
	Title  string `json:"title"`
	Head   string `json:"head"`
	Base   string `json:"base"`
}

// PullRequestOptions describes a pull request to open
type PullRequestOptions struct {
	Title string
	Body  string
	Head  string
	Base  string
}
