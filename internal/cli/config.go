package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/refracthq/refract/internal/config"
)

// newConfigCmd creates the config command
func newConfigCmd(ctx *commandContext) *cobra.Command {
	var showFlag bool
	var validateFlag bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and validate configuration",
		Long: `View and validate refract configuration settings.

Use --show to display the resolved configuration or --validate to
check it for errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showFlag && !validateFlag {
				return cmd.Help()
			}
			if showFlag && validateFlag {
				return fmt.Errorf("only one flag can be used at a time")
			}

			if showFlag {
				return handleShow(ctx.cfg)
			}
			return handleValidate(ctx.cfg)
		},
	}

	cmd.Flags().BoolVarP(&showFlag, "show", "s", false, "Display the resolved configuration")
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "Validate the configuration")

	return cmd
}

// handleShow displays the resolved configuration in YAML format
func handleShow(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

// handleValidate checks the configuration for errors
func handleValidate(cfg *config.Config) error {
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println("Configuration is valid.")
	return nil
}
