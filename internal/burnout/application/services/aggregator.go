package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
	tracking "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// UnknownUser is the display-name placeholder when no user record
// exists for the subject.
const UnknownUser = "Unknown"

// SignalAggregator gathers the raw counts feeding score computation
// from the task, activity, and user stores. Read-only.
type SignalAggregator struct {
	tasks        tracking.TaskRepository
	users        tracking.UserRepository
	activity     tracking.ActivityRepository
	commitSample int
	logger       *slog.Logger
	now          func() time.Time
}

// NewSignalAggregator creates an aggregator. commitSample bounds how
// many recent commit messages are carried into the bundle.
func NewSignalAggregator(
	tasks tracking.TaskRepository,
	users tracking.UserRepository,
	activity tracking.ActivityRepository,
	commitSample int,
	logger *slog.Logger,
) *SignalAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if commitSample <= 0 {
		commitSample = 10
	}
	return &SignalAggregator{
		tasks:        tasks,
		users:        users,
		activity:     activity,
		commitSample: commitSample,
		logger:       logger,
		now:          time.Now,
	}
}

// Aggregate builds the signal bundle for a user, scoped to a project
// when one is given. A missing activity snapshot or user record is not
// an error (zero counts / placeholder name); a failing store read is.
func (a *SignalAggregator) Aggregate(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (domain.SignalBundle, error) {
	var bundle domain.SignalBundle

	snapshot, err := a.activity.FindLatest(ctx, userID, projectID)
	if err != nil {
		return bundle, fmt.Errorf("read activity snapshot: %w", err)
	}
	if snapshot != nil {
		bundle.CommitsCount = len(snapshot.Commits)
		bundle.PullRequestsCount = len(snapshot.PullRequests)
		bundle.IssuesCount = len(snapshot.Issues)

		sample := a.commitSample
		if sample > len(snapshot.Commits) {
			sample = len(snapshot.Commits)
		}
		for _, commit := range snapshot.Commits[:sample] {
			bundle.RecentCommitMessages = append(bundle.RecentCommitMessages, commit.Message)
		}
	}

	tasks, err := a.tasks.List(ctx, tracking.TaskFilter{Assignee: &userID, Project: projectID})
	if err != nil {
		return bundle, fmt.Errorf("list tasks: %w", err)
	}

	now := a.now()
	for _, task := range tasks {
		if task.IsOpen() {
			bundle.TasksInProgress++
		}
		if task.IsDone() {
			bundle.CompletedTasks++
		}
		if task.IsOverdue(now) {
			bundle.OverdueTasks++
		}
	}
	bundle.TotalTasks = len(tasks)

	user, err := a.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, tracking.ErrUserNotFound):
		a.logger.Debug("no user record for subject, using placeholder", "user_id", userID)
		bundle.UserDisplayName = UnknownUser
	case err != nil:
		return bundle, fmt.Errorf("resolve user: %w", err)
	default:
		bundle.UserDisplayName = user.Name
	}

	return bundle, nil
}
