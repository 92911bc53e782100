package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/app"
)

// NewScoreCommand creates the score command, which computes or returns
// a user's burnout score.
func NewScoreCommand(container *app.Container) *cobra.Command {
	var (
		projectFlag string
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "score <user-id>",
		Short: "Compute a user's burnout score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			var projectID *uuid.UUID
			if projectFlag != "" {
				id, err := uuid.Parse(projectFlag)
				if err != nil {
					return fmt.Errorf("invalid project id: %w", err)
				}
				projectID = &id
			}

			score, err := container.BurnoutService.GetOrCompute(cmd.Context(), userID, projectID, refresh)
			if err != nil {
				return err
			}

			fmt.Printf("Score:      %d (%s)\n", score.Score, score.RiskLevel)
			fmt.Printf("Model:      %s\n", score.ModelUsed)
			fmt.Printf("Week:       %d/%d\n", score.Week, score.Year)
			fmt.Printf("Analysis:   %s\n", score.Analysis)
			for i, rec := range score.Recommendations {
				fmt.Printf("  %d. %s\n", i+1, rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "scope the score to a project")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "force a fresh computation")
	return cmd
}
