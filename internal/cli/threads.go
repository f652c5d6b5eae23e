package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refracthq/refract/internal/db"
	"github.com/refracthq/refract/internal/plugin"
	"github.com/refracthq/refract/internal/store"
)

// newThreadsCmd creates the threads command
func newThreadsCmd(ctx *commandContext) *cobra.Command {
	var path string
	var resolveID string

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List or resolve review threads",
		Long: `List the review threads kept in the local store, optionally
filtered by path, or mark one resolved with --resolve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(&ctx.cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to open review database: %w", err)
			}
			defer database.Close()

			reviews, err := store.NewStore(database, ctx.logger)
			if err != nil {
				return err
			}

			if resolveID != "" {
				if err := reviews.ResolveThread(resolveID); err != nil {
					return err
				}
				fmt.Printf("Resolved thread %s\n", resolveID)
				return nil
			}

			return handleListThreads(ctx, reviews, path)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Only show threads for this path")
	cmd.Flags().StringVar(&resolveID, "resolve", "", "Mark the thread with this ID resolved")

	return cmd
}

// handleListThreads lists stored threads through the local plugin
// service
func handleListThreads(ctx *commandContext, reviews *store.Store, path string) error {
	local, err := plugin.NewLocalPlugin(reviews)
	if err != nil {
		return err
	}

	registry := plugin.NewRegistry()
	if err := registry.Register(local); err != nil {
		return err
	}

	service, err := plugin.NewService(registry, ctx.logger)
	if err != nil {
		return err
	}

	// The service fronts every agent the same way; path filtering is a
	// store-level concern, so filtered listings go straight to the
	// store.
	if path != "" {
		threads, err := reviews.ListThreads(path)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, thread := range threads {
			state := "open"
			if thread.Resolved {
				state = "resolved"
			}
			fmt.Fprintf(w, "%s\t%s\t%s:%d\t%d comments\n",
				thread.ID, state, thread.Location.Path, thread.Location.Range.Start.Line, len(thread.Comments))
		}
		return w.Flush()
	}

	refs, err := service.ListThreads(local.ID())
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		fmt.Println("No review threads.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, ref := range refs {
		fmt.Fprintf(w, "%s\t%s\n", ref.ID, ref.Title)
	}
	return w.Flush()
}
