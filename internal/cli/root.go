package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refracthq/refract/internal/config"
	"github.com/refracthq/refract/internal/logging"
)

const (
	version = "0.1.0"
)

// commandContext carries the resolved configuration and logger into
// command handlers.
type commandContext struct {
	cfg      *config.Config
	logger   logging.Logger
	repoPath string
}

// NewRootCmd creates and returns the root command for refract
func NewRootCmd() *cobra.Command {
	ctx := &commandContext{}
	var configPath string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "refract",
		Short: "Construct review diffs and apply suggestions",
		Long: `Refract is a CLI tool for local code review: it builds structured
diffs between revisions or against the working tree, previews and
applies suggestion edits, and keeps review threads in a local store.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				if err := config.EnsureConfigFile(); err != nil {
					return fmt.Errorf("failed to ensure config file: %w", err)
				}
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			logger, err := logging.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			ctx.cfg = cfg
			ctx.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.repoPath, "repo", ".", "Path to the repository")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	// Add subcommands
	rootCmd.AddCommand(newDiffCmd(ctx))
	rootCmd.AddCommand(newSuggestCmd(ctx))
	rootCmd.AddCommand(newStatusCmd(ctx))
	rootCmd.AddCommand(newThreadsCmd(ctx))
	rootCmd.AddCommand(newConfigCmd(ctx))

	return rootCmd
}
