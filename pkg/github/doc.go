// Package github is the hosting side of adrsync. It opens pull requests and
// looks up repositories through the GitHub REST API.
//
// The package includes:
// - APIClient interface for the GitHub operations adrsync needs
// - Client, the go-github implementation with retry and rate limiting
// - GitHubError, a classification of API failures
// - Token resolution and validation helpers
package github
