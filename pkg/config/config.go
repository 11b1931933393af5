package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values applied to empty configuration fields
const (
	DefaultBranch        = "adr-bootstrap"
	DefaultTemplatePath  = "ADR-000.md"
	DefaultWorkDir       = ".adrsync-work"
	DefaultRemoteURL     = "https://github.com/{owner}/{name}.git"
	DefaultCommitMessage = "docs: add ADR template"
	DefaultPRTitle       = "Add ADR template"
	DefaultPRBody        = "Adds `ADRs/ADR-000.md` from the shared ADR template and links the ADRs folder from the README."
	DefaultAuthorName    = "adrsync"
	DefaultAuthorEmail   = "adrsync@users.noreply.github.com"
	DefaultLogLevel      = "progress"
)

// DefaultBaseBranches lists the pull request base candidates in the order they are tried
var DefaultBaseBranches = []string{"main", "master"}

// Config represents the adrsync configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Sync   SyncConfig   `yaml:"sync"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token  string `yaml:"token,omitempty"`
	Owner  string `yaml:"owner"`
	APIURL string `yaml:"api_url,omitempty"`
}

// SyncConfig describes which repositories get the ADR template and how
type SyncConfig struct {
	Repositories  []string     `yaml:"repositories"`
	Branch        string       `yaml:"branch"`
	BaseBranches  []string     `yaml:"base_branches"`
	Template      string       `yaml:"template"`
	WorkDir       string       `yaml:"workdir"`
	RemoteURL     string       `yaml:"remote_url,omitempty"`
	CommitMessage string       `yaml:"commit_message,omitempty"`
	PRTitle       string       `yaml:"pr_title,omitempty"`
	PRBody        string       `yaml:"pr_body,omitempty"`
	ForcePush     bool         `yaml:"force_push,omitempty"`
	Cleanup       bool         `yaml:"cleanup,omitempty"`
	Author        AuthorConfig `yaml:"author,omitempty"`
}

// AuthorConfig is the identity used for commits
type AuthorConfig struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// RepositoryRef identifies a single repository on the hosting service
type RepositoryRef struct {
	Owner string
	Name  string
}

// FullName returns "owner/name"
func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".adrsync", "config.yaml"), nil
}

// Default returns a configuration with every default filled in
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every empty field with its default value
func (c *Config) ApplyDefaults() {
	s := &c.Sync
	if s.Branch == "" {
		s.Branch = DefaultBranch
	}
	if len(s.BaseBranches) == 0 {
		s.BaseBranches = append([]string(nil), DefaultBaseBranches...)
	}
	if s.Template == "" {
		s.Template = DefaultTemplatePath
	}
	if s.WorkDir == "" {
		s.WorkDir = DefaultWorkDir
	}
	if s.RemoteURL == "" {
		s.RemoteURL = DefaultRemoteURL
	}
	if s.CommitMessage == "" {
		s.CommitMessage = DefaultCommitMessage
	}
	if s.PRTitle == "" {
		s.PRTitle = DefaultPRTitle
	}
	if s.PRBody == "" {
		s.PRBody = DefaultPRBody
	}
	if s.Author.Name == "" {
		s.Author.Name = DefaultAuthorName
	}
	if s.Author.Email == "" {
		s.Author.Email = DefaultAuthorEmail
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// ApplyEnv overlays environment variables on top of file values.
// GITHUB_TOKEN and ADRSYNC_OWNER win over the config file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if token := strings.TrimSpace(getenv("GITHUB_TOKEN")); token != "" {
		c.GitHub.Token = token
	}
	if owner := strings.TrimSpace(getenv("ADRSYNC_OWNER")); owner != "" {
		c.GitHub.Owner = owner
	}
	if level := strings.TrimSpace(getenv("ADRSYNC_LOG_LEVEL")); level != "" {
		c.Log.Level = level
	}
}

// RepositoryRefs resolves the configured repository entries. Entries are
// either "name", owned by the configured owner, or "owner/name".
func (c *Config) RepositoryRefs() ([]RepositoryRef, error) {
	refs := make([]RepositoryRef, 0, len(c.Sync.Repositories))
	for _, entry := range c.Sync.Repositories {
		ref, err := ParseRepositoryRef(entry, c.GitHub.Owner)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ParseRepositoryRef parses "name" or "owner/name"
func ParseRepositoryRef(entry, defaultOwner string) (RepositoryRef, error) {
	entry = strings.TrimSpace(entry)
	parts := strings.Split(entry, "/")
	switch len(parts) {
	case 1:
		if defaultOwner == "" {
			return RepositoryRef{}, fmt.Errorf("repository %q has no owner: set github.owner or use owner/name", entry)
		}
		return RepositoryRef{Owner: defaultOwner, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return RepositoryRef{}, fmt.Errorf("invalid repository %q: expected owner/name", entry)
		}
		return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
	default:
		return RepositoryRef{}, fmt.Errorf("invalid repository %q: expected owner/name", entry)
	}
}

// CloneURL expands the remote URL pattern for a repository
func (s SyncConfig) CloneURL(ref RepositoryRef) string {
	pattern := s.RemoteURL
	if pattern == "" {
		pattern = DefaultRemoteURL
	}
	return strings.NewReplacer("{owner}", ref.Owner, "{name}", ref.Name).Replace(pattern)
}
