package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/app"
)

// NewSyncCommand creates the sync command, which refreshes GitHub
// activity snapshots for a project's members.
func NewSyncCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <project-id>",
		Short: "Sync GitHub activity for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id: %w", err)
			}

			results, err := container.SyncService.SyncProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			for _, result := range results {
				if result.Success {
					fmt.Printf("%s (%s): %d commits, %d pull requests\n",
						result.Name, result.GithubUsername, result.Commits, result.PullRequests)
				} else {
					fmt.Printf("%s (%s): failed: %s\n",
						result.Name, result.GithubUsername, result.Error)
				}
			}
			return nil
		},
	}
}
