package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"adrsync/pkg/config"
	"adrsync/pkg/log"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	configPath string
	logLevel   string
	logOutput  io.Writer
}

// Execute runs adrsync with the process arguments and exits
func Execute() {
	os.Exit(Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// Run builds a fresh command tree, executes it and returns the exit code.
// SIGINT and SIGTERM cancel the command's context.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "adrsync",
		Short: "Bootstrap Architecture Decision Records across GitHub repositories",
		Long: `adrsync adds an ADR template to a fixed list of GitHub repositories.

For every configured repository it clones a fresh working copy, switches to
the working branch, writes ADRs/ADR-000.md from the local template, links the
ADRs folder from the README when it is not already mentioned, commits when
anything changed, pushes the branch and opens a pull request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := opts.logLevel
			if level == "" {
				level = os.Getenv("ADRSYNC_LOG_LEVEL")
			}
			opts.logOutput = cmd.ErrOrStderr()
			log.Init(log.Config{
				Level:  log.ParseLevel(level),
				Output: opts.logOutput,
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ~/.adrsync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level: debug, info, progress, warn, error")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// resolveConfigPath returns --config or the default location
func (o *globalOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

// loadConfig reads the config file and overlays the environment. Defaults
// are applied by the caller once flags have been merged.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load adrsync config: %w", err)
	}
	cfg.ApplyEnv(nil)

	if o.logLevel == "" && os.Getenv("ADRSYNC_LOG_LEVEL") == "" && cfg.Log.Level != "" {
		log.Init(log.Config{Level: log.ParseLevel(cfg.Log.Level), Output: o.logOutput})
	}

	log.Debug("configuration loaded", "path", path)
	return cfg, nil
}
