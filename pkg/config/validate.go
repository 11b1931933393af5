package config

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	validRepoName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	validOwner    = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks the configuration after defaults have been applied.
// It returns ValidationErrors listing every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.GitHub.Owner != "" && !validOwner.MatchString(c.GitHub.Owner) {
		errs.Add("github.owner", c.GitHub.Owner, "owner may only contain alphanumeric characters and single hyphens")
	}

	if len(c.Sync.Repositories) == 0 {
		errs.Add("sync.repositories", "", "at least one repository is required")
	}

	seen := make(map[string]bool)
	for i, entry := range c.Sync.Repositories {
		field := fmt.Sprintf("sync.repositories[%d]", i)
		ref, err := ParseRepositoryRef(entry, c.GitHub.Owner)
		if err != nil {
			errs.Add(field, entry, err.Error())
			continue
		}
		if msg := repoNameProblem(ref.Name); msg != "" {
			errs.Add(field, entry, msg)
			continue
		}
		key := strings.ToLower(ref.FullName())
		if seen[key] {
			errs.Add(field, entry, "duplicate repository")
		}
		seen[key] = true
	}

	if msg := branchNameProblem(c.Sync.Branch); msg != "" {
		errs.Add("sync.branch", c.Sync.Branch, msg)
	}

	if len(c.Sync.BaseBranches) == 0 {
		errs.Add("sync.base_branches", "", "at least one base branch candidate is required")
	}
	for i, base := range c.Sync.BaseBranches {
		if msg := branchNameProblem(base); msg != "" {
			errs.Add(fmt.Sprintf("sync.base_branches[%d]", i), base, msg)
		}
		if base == c.Sync.Branch {
			errs.Add(fmt.Sprintf("sync.base_branches[%d]", i), base, "base branch must differ from the working branch")
		}
	}

	if strings.TrimSpace(c.Sync.Template) == "" {
		errs.Add("sync.template", "", "template path is required")
	}
	if strings.TrimSpace(c.Sync.WorkDir) == "" {
		errs.Add("sync.workdir", "", "working directory is required")
	}
	if strings.TrimSpace(c.Sync.CommitMessage) == "" {
		errs.Add("sync.commit_message", "", "commit message is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// repoNameProblem applies GitHub repository naming rules
func repoNameProblem(name string) string {
	switch {
	case name == "":
		return "repository name is required"
	case len(name) > 100:
		return "repository name must be 100 characters or less"
	case !validRepoName.MatchString(name):
		return "repository name can only contain alphanumeric characters, periods, hyphens, and underscores"
	case name == "." || name == "..":
		return "repository name cannot be . or .."
	}
	return ""
}

// branchNameProblem applies a subset of git check-ref-format rules
func branchNameProblem(name string) string {
	switch {
	case name == "":
		return "branch name is required"
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"):
		return "branch name cannot start with '-' or '/' or end with '/'"
	case strings.HasSuffix(name, ".lock"), strings.HasSuffix(name, "."):
		return "branch name cannot end with '.lock' or '.'"
	case strings.Contains(name, ".."), strings.Contains(name, "//"), strings.Contains(name, "@{"):
		return "branch name cannot contain '..', '//' or '@{'"
	case strings.ContainsAny(name, " ~^:?*[\\\t\n"):
		return "branch name contains characters git does not allow"
	}
	return ""
}
