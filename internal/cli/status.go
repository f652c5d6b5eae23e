package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refracthq/refract/internal/git"
	"github.com/refracthq/refract/internal/review"
)

// newStatusCmd creates the status command
func newStatusCmd(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show repository review status",
		Long:  "Show the head and base revisions, the current branch, and whether the working tree is dirty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.Open(ctx.repoPath, ctx.logger)
			if err != nil {
				return fmt.Errorf("failed to open repository: %w", err)
			}
			return handleStatus(repo)
		},
	}
}

// handleStatus implements the status command logic
func handleStatus(repo *git.Repository) error {
	status, err := repo.WorkspaceStatus()
	if err != nil {
		return fmt.Errorf("failed to read workspace status: %w", err)
	}

	branch := status.CurrentBranch
	if branch == "" {
		branch = "(detached)"
	}
	fmt.Printf("Branch: %s\n", branch)

	head, err := repo.HeadRevision()
	if err != nil {
		return fmt.Errorf("failed to resolve head revision: %w", err)
	}
	if head == nil {
		fmt.Println("Head: (no commits)")
		return nil
	}
	fmt.Printf("Head: %s\n", describeRevision(head))

	base, err := repo.BaseRevision()
	if err != nil {
		return fmt.Errorf("failed to resolve base revision: %w", err)
	}
	if base == nil {
		fmt.Println("Base: (root commit)")
	} else {
		fmt.Printf("Base: %s\n", describeRevision(base))
	}

	if status.Dirty {
		fmt.Println("Working tree: dirty")
	} else {
		fmt.Println("Working tree: clean")
	}
	return nil
}

func describeRevision(rev *review.Revision) string {
	oid := rev.OID
	if len(oid) > 12 {
		oid = oid[:12]
	}
	if rev.Summary != "" {
		return fmt.Sprintf("%s %s", oid, rev.Summary)
	}
	return oid
}
