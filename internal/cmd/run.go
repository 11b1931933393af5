package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"adrsync/pkg/adrsync"
	"adrsync/pkg/config"
	"adrsync/pkg/fuzzy"
	"adrsync/pkg/git"
	"adrsync/pkg/github"
	"adrsync/pkg/log"
)

type runOptions struct {
	*globalOptions

	owner    string
	repos    []string
	branch   string
	template string
	workDir  string
	dryRun   bool
	strict   bool
	pick     bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{globalOptions: global}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Add the ADR template to every configured repository",
		Long: `Add the ADR template to every configured repository.

Repositories are processed one at a time, in the configured order. Each one is
cloned fresh into the work directory, the working branch is switched to (or
created), ADRs/ADR-000.md is written from the template and the README gains a
"Design decisions / ADRs" section unless it already links the ADRs folder.
Nothing is committed when the branch already holds that content.

A failing repository is reported and the batch moves on. The command only
exits non-zero when the template is missing or the configuration is invalid,
or with --strict when any repository failed.

Examples:
  # Process every configured repository
  adrsync run

  # Preview without committing, pushing or opening pull requests
  adrsync run --dry-run

  # Process a subset
  adrsync run --repos svc-a,other-org/svc-b

  # Choose repositories interactively
  adrsync run --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}

	runCmd.Flags().StringVar(&opts.owner, "owner", "", "Default repository owner (organization or user)")
	runCmd.Flags().StringSliceVar(&opts.repos, "repos", nil, "Comma-separated subset of configured repositories to process (e.g., --repos svc-a,svc-b)")
	runCmd.Flags().StringVar(&opts.branch, "branch", "", "Working branch to push (default adr-bootstrap)")
	runCmd.Flags().StringVar(&opts.template, "template", "", "Path to the ADR template file")
	runCmd.Flags().StringVar(&opts.workDir, "workdir", "", "Directory holding the working copies")
	runCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Prepare working copies and report what would change without committing")
	runCmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any repository failed")
	runCmd.Flags().BoolVar(&opts.pick, "pick", false, "Choose repositories interactively")

	return runCmd
}

// applyFlags overlays the command line on top of file and environment values
func (o *runOptions) applyFlags(cfg *config.Config) {
	if o.owner != "" {
		cfg.GitHub.Owner = o.owner
	}
	if o.branch != "" {
		cfg.Sync.Branch = o.branch
	}
	if o.template != "" {
		cfg.Sync.Template = o.template
	}
	if o.workDir != "" {
		cfg.Sync.WorkDir = o.workDir
	}
}

// prepareConfig loads, merges, defaults and validates the configuration
func (o *runOptions) prepareConfig() (*config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	o.applyFlags(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runSync(cmd *cobra.Command, opts *runOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := opts.prepareConfig()
	if err != nil {
		return err
	}

	// checked before anything is picked, cloned or touched
	tmpl, err := adrsync.LoadTemplate(cfg.Sync.Template)
	if err != nil {
		return err
	}
	log.Debug("template loaded", "template", tmpl.String())

	specs, err := adrsync.SpecsFromConfig(cfg)
	if err != nil {
		return err
	}

	specs, err = filterSpecs(specs, opts.repos)
	if err != nil {
		return err
	}

	if opts.pick {
		specs, err = pickSpecs(specs, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to pick repositories: %w", err)
		}
	}

	token, err := github.GetToken(cfg)
	if err != nil {
		if !opts.dryRun {
			log.Warn("no GitHub token configured, pushing and opening pull requests may fail", "error", err)
		}
		token = ""
	}

	hosting, err := github.NewClient(token, cfg.GitHub.APIURL)
	if err != nil {
		return err
	}

	worker := adrsync.NewWorker(adrsync.NewGitClient(token), hosting, adrsync.Options{
		WorkDir:       cfg.Sync.WorkDir,
		CommitMessage: cfg.Sync.CommitMessage,
		PRTitle:       cfg.Sync.PRTitle,
		PRBody:        cfg.Sync.PRBody,
		Author: git.Author{
			Name:  cfg.Sync.Author.Name,
			Email: cfg.Sync.Author.Email,
		},
		ForcePush: cfg.Sync.ForcePush,
		DryRun:    opts.dryRun,
		Cleanup:   cfg.Sync.Cleanup,
	}, out)

	if opts.dryRun {
		fmt.Fprintln(out, "Dry run: nothing will be committed, pushed or opened.")
	}

	report := adrsync.NewRunner(worker, out).Run(cmd.Context(), specs, tmpl)

	if report.Cancelled {
		return errors.New("interrupted before every repository was processed")
	}
	if opts.strict {
		return report.Err()
	}
	return nil
}

// filterSpecs keeps the configured repositories named by subset, in
// configured order. Entries match either "name" or "owner/name".
func filterSpecs(specs []adrsync.RepositorySpec, subset []string) ([]adrsync.RepositorySpec, error) {
	if len(subset) == 0 {
		return specs, nil
	}

	wanted := make(map[string]bool, len(subset))
	for _, entry := range subset {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			wanted[entry] = true
		}
	}

	var filtered []adrsync.RepositorySpec
	matched := make(map[string]bool)
	for _, spec := range specs {
		full := strings.ToLower(spec.FullName())
		name := strings.ToLower(spec.Name)
		switch {
		case wanted[full]:
			matched[full] = true
		case wanted[name]:
			matched[name] = true
		default:
			continue
		}
		filtered = append(filtered, spec)
	}

	var unknown []string
	for entry := range wanted {
		if !matched[entry] {
			unknown = append(unknown, entry)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("repositories not found in configuration: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

func pickSpecs(specs []adrsync.RepositorySpec, in io.Reader, out io.Writer) ([]adrsync.RepositorySpec, error) {
	names := make([]string, len(specs))
	byName := make(map[string]adrsync.RepositorySpec, len(specs))
	for i, spec := range specs {
		names[i] = spec.FullName()
		byName[names[i]] = spec
	}

	picked, err := fuzzy.PickRepositories(names, in, out)
	if err != nil {
		return nil, err
	}

	selected := make([]adrsync.RepositorySpec, 0, len(picked))
	for _, name := range picked {
		selected = append(selected, byName[name])
	}
	return selected, nil
}
