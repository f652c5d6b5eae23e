package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
	"github.com/refracthq/refract/internal/suggest"
)

// newSuggestCmd creates the suggest command with preview and apply
// subcommands
func newSuggestCmd(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Preview or apply suggestion edits",
		Long: `Work with suggestion documents: JSON files describing text edits
against the head side of reviewed files. Preview renders the patches a
suggestion would produce; apply writes the edits to the working tree
and stages the changed files.`,
	}

	cmd.AddCommand(newSuggestPreviewCmd(ctx))
	cmd.AddCommand(newSuggestApplyCmd(ctx))

	return cmd
}

func newSuggestPreviewCmd(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the patches a suggestion would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			applier, suggestion, err := loadSuggestion(ctx, file)
			if err != nil {
				return err
			}

			previews, err := applier.DryRun(*suggestion)
			if err != nil {
				return err
			}

			if len(previews) == 0 {
				fmt.Println("No changes.")
				return nil
			}
			for _, preview := range previews {
				fmt.Print(preview.Patch)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the suggestion JSON document")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newSuggestApplyCmd(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a suggestion to the working tree and stage it",
		RunE: func(cmd *cobra.Command, args []string) error {
			applier, suggestion, err := loadSuggestion(ctx, file)
			if err != nil {
				return err
			}

			if err := applier.Apply(*suggestion); err != nil {
				return err
			}

			fmt.Println("Suggestion applied.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the suggestion JSON document")
	cmd.MarkFlagRequired("file")

	return cmd
}

func loadSuggestion(ctx *commandContext, file string) (*suggest.Applier, *review.Suggestion, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read suggestion file: %w", err)
	}

	var suggestion review.Suggestion
	if err := json.Unmarshal(data, &suggestion); err != nil {
		return nil, nil, fmt.Errorf("failed to parse suggestion file: %w", err)
	}

	repo, err := git.Open(ctx.repoPath, ctx.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open repository: %w", err)
	}

	applier, err := suggest.NewApplier(repo, ctx.logger)
	if err != nil {
		return nil, nil, err
	}

	return applier, &suggestion, nil
}
