package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"adrsync/pkg/adrsync"
	"adrsync/pkg/github"
)

type validateOptions struct {
	*globalOptions

	remote bool
}

func newValidateCmd(global *globalOptions) *cobra.Command {
	opts := &validateOptions{globalOptions: global}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration, template and token",
		Long: `Validate the adrsync configuration before running it.

Offline checks (always performed):
• Configuration syntax and field rules
• Repository and branch names
• Template file exists and is readable
• A GitHub token is available

Online checks (--remote):
• The token is accepted by the GitHub API and carries the repo scope
• Every configured repository is reachable; its default branch is reported

Examples:
  adrsync validate
  adrsync validate --remote
  adrsync validate --config ./adrsync.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	validateCmd.Flags().BoolVar(&opts.remote, "remote", false, "Check the token and every repository against the GitHub API")

	return validateCmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	out := cmd.OutOrStdout()

	path, err := opts.resolveConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "🔍 Validating configuration: %s\n", path)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	fmt.Fprintf(out, "✓ Configuration is valid (%d repositories)\n", len(cfg.Sync.Repositories))

	tmpl, err := adrsync.LoadTemplate(cfg.Sync.Template)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Template %s (%d bytes)\n", tmpl.Path(), tmpl.Len())

	token, tokenErr := github.GetToken(cfg)
	if tokenErr != nil {
		fmt.Fprintf(out, "⚠️  %v\n", tokenErr)
	} else {
		fmt.Fprintln(out, "✓ GitHub token found")
	}

	if !opts.remote {
		fmt.Fprintln(out, "\n✅ Configuration is valid (offline validation only)")
		return nil
	}

	if tokenErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", github.GetAuthInstructions())
		return tokenErr
	}

	client, err := github.NewClient(token, cfg.GitHub.APIURL)
	if err != nil {
		return err
	}

	info, err := client.ValidateToken(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Authentication failed: %v\n\n%s\n", err, github.GetAuthInstructions())
		return err
	}
	fmt.Fprintf(out, "✓ Authenticated as %s\n", info.User)
	if stats := client.RateLimiter().GetStats(); stats.RemainingRequests > 0 {
		fmt.Fprintf(out, "✓ API rate limit: %d requests remaining\n", stats.RemainingRequests)
	}

	specs, err := adrsync.SpecsFromConfig(cfg)
	if err != nil {
		return err
	}

	unreachable := 0
	for _, spec := range specs {
		repo, err := client.GetRepository(cmd.Context(), spec.Owner, spec.Name)
		if err != nil {
			unreachable++
			fmt.Fprintf(out, "❌ %s: %v\n", spec.FullName(), err)
			continue
		}

		note := ""
		if !slices.Contains(spec.BaseBranches, repo.DefaultBranch) {
			note = " (not a base branch candidate)"
		}
		if repo.Archived {
			note += " (archived)"
		}
		fmt.Fprintf(out, "✓ %s: default branch %s%s\n", spec.FullName(), repo.DefaultBranch, note)
	}

	if unreachable > 0 {
		return fmt.Errorf("%d of %d repositories could not be reached", unreachable, len(specs))
	}

	fmt.Fprintln(out, "\n✅ Configuration is valid")
	return nil
}
