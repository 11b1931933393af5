package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adrsync/pkg/config"
)

func TestGetToken(t *testing.T) {
	tests := []struct {
		name        string
		envToken    string
		config      *config.Config
		expected    string
		expectError bool
	}{
		{
			name:     "token from environment variable",
			envToken: "env_token_123",
			expected: "env_token_123",
		},
		{
			name: "token from config file",
			config: &config.Config{
				GitHub: config.GitHubConfig{Token: "  config_token_456\n"},
			},
			expected: "config_token_456",
		},
		{
			name:     "environment variable takes precedence",
			envToken: "env_token_123",
			config: &config.Config{
				GitHub: config.GitHubConfig{Token: "config_token_456"},
			},
			expected: "env_token_123",
		},
		{
			name:        "no token available",
			config:      &config.Config{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.envToken)

			token, err := GetToken(tt.config)

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "no GitHub token found")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestValidateScopes(t *testing.T) {
	assert.NoError(t, validateScopes(nil))
	assert.NoError(t, validateScopes([]string{"repo"}))
	assert.NoError(t, validateScopes([]string{"read:org", "public_repo"}))
	assert.Error(t, validateScopes([]string{"user"}))
}

func TestParseScopes(t *testing.T) {
	assert.Nil(t, parseScopes(""))
	assert.Equal(t, []string{"repo", "user"}, parseScopes("repo, user"))
}

func TestGetAuthInstructions(t *testing.T) {
	instructions := GetAuthInstructions()

	assert.Contains(t, instructions, "GITHUB_TOKEN")
	assert.Contains(t, instructions, "~/.adrsync/config.yaml")
}
