package adrsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adrsync/pkg/config"
)

func TestSpecsFromConfig(t *testing.T) {
	cfg := &config.Config{
		GitHub: config.GitHubConfig{Owner: "acme"},
		Sync: config.SyncConfig{
			Repositories: []string{"svc-a", "other/svc-b"},
		},
	}
	cfg.ApplyDefaults()

	specs, err := SpecsFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, RepositorySpec{
		Owner:        "acme",
		Name:         "svc-a",
		CloneURL:     "https://github.com/acme/svc-a.git",
		Branch:       config.DefaultBranch,
		BaseBranches: []string{"main", "master"},
	}, specs[0])
	assert.Equal(t, "other/svc-b", specs[1].FullName())

	specs[0].BaseBranches[0] = "changed"
	assert.Equal(t, "main", cfg.Sync.BaseBranches[0])
}

func TestSpecsFromConfigInvalidEntry(t *testing.T) {
	cfg := &config.Config{
		Sync: config.SyncConfig{Repositories: []string{"a/b/c"}},
	}
	cfg.ApplyDefaults()

	_, err := SpecsFromConfig(cfg)
	assert.Error(t, err)
}
