package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "config.yaml")
	configContent := `github:
  token: "ghp_test_token"
  owner: "test-org"
sync:
  repositories:
    - svc-a
    - other-org/svc-b
  branch: adr-init
  base_branches: [trunk, main]
  template: /tmp/ADR-000.md
  force_push: true
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadConfigFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.GitHub.Token != "ghp_test_token" {
		t.Errorf("Expected GitHub Token = ghp_test_token, got %s", config.GitHub.Token)
	}
	if config.GitHub.Owner != "test-org" {
		t.Errorf("Expected GitHub Owner = test-org, got %s", config.GitHub.Owner)
	}
	if len(config.Sync.Repositories) != 2 {
		t.Fatalf("Expected 2 repositories, got %d", len(config.Sync.Repositories))
	}
	if config.Sync.Branch != "adr-init" {
		t.Errorf("Expected Branch = adr-init, got %s", config.Sync.Branch)
	}
	if strings.Join(config.Sync.BaseBranches, ",") != "trunk,main" {
		t.Errorf("Expected base branches trunk,main, got %v", config.Sync.BaseBranches)
	}
	if !config.Sync.ForcePush {
		t.Error("Expected ForcePush = true")
	}
	if config.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Log.Level)
	}
}

func TestLoadConfigNonExistent(t *testing.T) {
	config, err := LoadConfigFromPath("/non/existent/path")
	if err != nil {
		t.Fatalf("Expected no error for non-existent config, got: %v", err)
	}

	if config.GitHub.Owner != "" || len(config.Sync.Repositories) != 0 {
		t.Error("Expected empty config for non-existent file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("sync: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadConfigFromPath(configPath); err == nil {
		t.Error("Expected parse error for invalid YAML")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := Default()
	config.GitHub.Owner = "acme"
	config.Sync.Repositories = []string{"payments", "ledger"}

	if err := config.SaveConfigToPath(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file mode 0600, got %o", info.Mode().Perm())
	}

	loaded, err := LoadConfigFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.GitHub.Owner != "acme" {
		t.Errorf("Expected owner acme, got %s", loaded.GitHub.Owner)
	}
	if loaded.Sync.Branch != DefaultBranch {
		t.Errorf("Expected branch %s, got %s", DefaultBranch, loaded.Sync.Branch)
	}
}

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	config.ApplyDefaults()

	if config.Sync.Branch != DefaultBranch {
		t.Errorf("Expected default branch, got %s", config.Sync.Branch)
	}
	if strings.Join(config.Sync.BaseBranches, ",") != "main,master" {
		t.Errorf("Expected main,master, got %v", config.Sync.BaseBranches)
	}
	if config.Sync.RemoteURL != DefaultRemoteURL {
		t.Errorf("Expected default remote URL, got %s", config.Sync.RemoteURL)
	}
	if config.Sync.Author.Name != DefaultAuthorName || config.Sync.Author.Email != DefaultAuthorEmail {
		t.Errorf("Unexpected default author: %+v", config.Sync.Author)
	}

	// Defaults must not alias the package level slice
	config.Sync.BaseBranches[0] = "changed"
	if DefaultBaseBranches[0] != "main" {
		t.Error("ApplyDefaults aliased DefaultBaseBranches")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	config := &Config{Sync: SyncConfig{Branch: "custom", BaseBranches: []string{"develop"}}}
	config.ApplyDefaults()

	if config.Sync.Branch != "custom" {
		t.Errorf("Expected custom branch to survive, got %s", config.Sync.Branch)
	}
	if len(config.Sync.BaseBranches) != 1 || config.Sync.BaseBranches[0] != "develop" {
		t.Errorf("Expected develop base, got %v", config.Sync.BaseBranches)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GITHUB_TOKEN":  "  env-token ",
		"ADRSYNC_OWNER": "env-org",
	}
	config := &Config{GitHub: GitHubConfig{Token: "file-token", Owner: "file-org"}}
	config.ApplyEnv(func(k string) string { return env[k] })

	if config.GitHub.Token != "env-token" {
		t.Errorf("Expected env token to win, got %q", config.GitHub.Token)
	}
	if config.GitHub.Owner != "env-org" {
		t.Errorf("Expected env owner to win, got %q", config.GitHub.Owner)
	}
}

func TestApplyEnvEmptyKeepsFile(t *testing.T) {
	config := &Config{GitHub: GitHubConfig{Token: "file-token"}}
	config.ApplyEnv(func(string) string { return "" })

	if config.GitHub.Token != "file-token" {
		t.Errorf("Expected file token to survive, got %q", config.GitHub.Token)
	}
}

func TestParseRepositoryRef(t *testing.T) {
	tests := []struct {
		name      string
		entry     string
		owner     string
		want      RepositoryRef
		wantError bool
	}{
		{name: "bare name", entry: "svc-a", owner: "acme", want: RepositoryRef{Owner: "acme", Name: "svc-a"}},
		{name: "qualified", entry: "other/svc-b", owner: "acme", want: RepositoryRef{Owner: "other", Name: "svc-b"}},
		{name: "trimmed", entry: "  svc-c ", owner: "acme", want: RepositoryRef{Owner: "acme", Name: "svc-c"}},
		{name: "no owner", entry: "svc-a", owner: "", wantError: true},
		{name: "empty segment", entry: "acme/", owner: "acme", wantError: true},
		{name: "too many segments", entry: "a/b/c", owner: "acme", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepositoryRef(tt.entry, tt.owner)
			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.entry)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCloneURL(t *testing.T) {
	ref := RepositoryRef{Owner: "acme", Name: "svc-a"}

	s := SyncConfig{}
	if got := s.CloneURL(ref); got != "https://github.com/acme/svc-a.git" {
		t.Errorf("Unexpected default clone URL %s", got)
	}

	s.RemoteURL = "/srv/git/{owner}/{name}.git"
	if got := s.CloneURL(ref); got != "/srv/git/acme/svc-a.git" {
		t.Errorf("Unexpected custom clone URL %s", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.GitHub.Owner = "acme"
		c.Sync.Repositories = []string{"svc-a", "other/svc-b"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no repositories", mutate: func(c *Config) { c.Sync.Repositories = nil }, field: "sync.repositories", wantErr: true},
		{name: "bad repo name", mutate: func(c *Config) { c.Sync.Repositories = []string{"bad name"} }, field: "sync.repositories[0]", wantErr: true},
		{name: "duplicate repo", mutate: func(c *Config) { c.Sync.Repositories = []string{"svc-a", "acme/SVC-A"} }, field: "sync.repositories[1]", wantErr: true},
		{name: "bad branch", mutate: func(c *Config) { c.Sync.Branch = "adr..bootstrap" }, field: "sync.branch", wantErr: true},
		{name: "branch with space", mutate: func(c *Config) { c.Sync.Branch = "adr bootstrap" }, field: "sync.branch", wantErr: true},
		{name: "no base branches", mutate: func(c *Config) { c.Sync.BaseBranches = nil }, field: "sync.base_branches", wantErr: true},
		{name: "base equals branch", mutate: func(c *Config) { c.Sync.BaseBranches = []string{c.Sync.Branch} }, field: "sync.base_branches[0]", wantErr: true},
		{name: "no template", mutate: func(c *Config) { c.Sync.Template = " " }, field: "sync.template", wantErr: true},
		{name: "bad owner", mutate: func(c *Config) { c.GitHub.Owner = "-acme" }, field: "github.owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Expected valid config, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
			}
			found := false
			for _, v := range verrs {
				if v.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error on field %s, got %v", tt.field, verrs)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Unexpected empty message %q", errs.Error())
	}

	errs.Add("sync.branch", "x y", "bad")
	if !strings.Contains(errs.Error(), "sync.branch") {
		t.Errorf("Expected field in message, got %q", errs.Error())
	}

	errs.Add("sync.template", "", "missing")
	if !strings.HasPrefix(errs.Error(), "validation failed with 2 errors") {
		t.Errorf("Unexpected aggregate message %q", errs.Error())
	}
}
