package github

import (
	"fmt"
	"os"
	"strings"

	"adrsync/pkg/config"
)

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// GetToken retrieves the GitHub token from environment variable or config file
func GetToken(cfg *config.Config) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}

	if cfg != nil && cfg.GitHub.Token != "" {
		return strings.TrimSpace(cfg.GitHub.Token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN environment variable or configure token in ~/.adrsync/config.yaml")
}

func parseScopes(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(header, " ", ""), ",")
}

// validateScopes checks that a classic token can push and open pull requests.
// Fine-grained tokens report no scopes and are not checked here.
func validateScopes(scopes []string) error {
	if len(scopes) == 0 {
		return nil
	}

	for _, scope := range scopes {
		if scope == "repo" || scope == "public_repo" {
			return nil
		}
	}

	return fmt.Errorf("GitHub token missing required permissions: repo. Please ensure your token has the repo (or public_repo) scope")
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_personal_access_token"

2. Configuration File:
   Add the following to ~/.adrsync/config.yaml:

   github:
     token: "your_personal_access_token"

The token needs the 'repo' scope (or 'public_repo' for public repositories),
or for fine-grained tokens: Contents and Pull requests read/write access.`
}
