package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refracthq/refract/internal/diff"
	"github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
)

// newDiffCmd creates the diff command
func newDiffCmd(ctx *commandContext) *cobra.Command {
	var baseRev string
	var headRev string
	var workspace bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show a structured diff",
		Long: `Build a structured diff for the repository: head against its first
parent by default, an explicit base/head pair with --base/--head, or
the working tree against head with --workspace.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workspace && (baseRev != "" || headRev != "") {
				return fmt.Errorf("--workspace cannot be combined with --base/--head")
			}

			repo, err := git.Open(ctx.repoPath, ctx.logger)
			if err != nil {
				return fmt.Errorf("failed to open repository: %w", err)
			}

			engine, err := diff.NewEngine(ctx.cfg, ctx.logger)
			if err != nil {
				return err
			}

			result, err := runDiff(engine, repo, baseRev, headRev, workspace)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printDiffSummary(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseRev, "base", "", "Base revision")
	cmd.Flags().StringVar(&headRev, "head", "", "Head revision")
	cmd.Flags().BoolVar(&workspace, "workspace", false, "Diff the working tree against head")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the diff as JSON")

	return cmd
}

func runDiff(engine *diff.Engine, repo *git.Repository, baseRev, headRev string, workspace bool) (*review.Diff, error) {
	if workspace {
		return engine.DiffWorkspace(repo)
	}
	if baseRev == "" && headRev == "" {
		return engine.Diff(repo)
	}

	rng, err := resolveRange(repo, baseRev, headRev)
	if err != nil {
		return nil, err
	}
	return engine.DiffForRange(repo, *rng)
}

// resolveRange builds an explicit revision range, falling back to the
// repository's own head/base for whichever side is unset.
func resolveRange(repo *git.Repository, baseRev, headRev string) (*review.RevisionRange, error) {
	rng, err := repo.RevisionRange()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision range: %w", err)
	}
	if rng == nil {
		return nil, diff.ErrNoHeadRevision
	}

	if headRev != "" {
		head, err := repo.ResolveRevision(headRev)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve head revision %s: %w", headRev, err)
		}
		rng.Head = head
	}
	if baseRev != "" {
		base, err := repo.ResolveRevision(baseRev)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base revision %s: %w", baseRev, err)
		}
		rng.Base = &base
	}
	return rng, nil
}

func printDiffSummary(result *review.Diff) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, file := range result.Files {
		path := file.Path
		if file.OldPath != "" {
			path = fmt.Sprintf("%s <- %s", file.Path, file.OldPath)
		}
		counts := fmt.Sprintf("+%d -%d", file.Additions, file.Deletions)
		if file.Binary {
			counts = "binary"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", file.Status, path, counts)
	}
	w.Flush()
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
