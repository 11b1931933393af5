package adrsync

import (
	"adrsync/pkg/config"
)

// RepositorySpec identifies one repository to bootstrap and how
type RepositorySpec struct {
	Owner        string
	Name         string
	CloneURL     string
	Branch       string
	BaseBranches []string
}

// FullName returns owner/name
func (s RepositorySpec) FullName() string {
	return s.Owner + "/" + s.Name
}

// SpecsFromConfig expands the configured repository list, in order.
// cfg is expected to have defaults applied.
func SpecsFromConfig(cfg *config.Config) ([]RepositorySpec, error) {
	refs, err := cfg.RepositoryRefs()
	if err != nil {
		return nil, err
	}

	specs := make([]RepositorySpec, 0, len(refs))
	for _, ref := range refs {
		bases := make([]string, len(cfg.Sync.BaseBranches))
		copy(bases, cfg.Sync.BaseBranches)

		specs = append(specs, RepositorySpec{
			Owner:        ref.Owner,
			Name:         ref.Name,
			CloneURL:     cfg.Sync.CloneURL(ref),
			Branch:       cfg.Sync.Branch,
			BaseBranches: bases,
		})
	}
	return specs, nil
}
