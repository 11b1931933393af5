package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adrsync/pkg/config"
)

type initOptions struct {
	*globalOptions

	force bool
}

func newInitCmd(global *globalOptions) *cobra.Command {
	opts := &initOptions{globalOptions: global}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize adrsync configuration",
		Long:  "Create a default configuration file for adrsync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	initCmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return initCmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	out := cmd.OutOrStdout()

	configPath, err := opts.resolveConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	defaultConfig := config.Default()
	defaultConfig.GitHub.Owner = "your-org"
	defaultConfig.Sync.Repositories = []string{"service-a", "service-b"}

	if err := defaultConfig.SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "📝 Please edit the file to list your repositories and set the template path.")

	return nil
}
