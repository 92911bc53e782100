package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
	tracking "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// MemberStat is one project member's burnout standing.
type MemberStat struct {
	UserID         uuid.UUID        `json:"userId"`
	MemberName     string           `json:"memberName"`
	GithubUsername string           `json:"githubUsername"`
	Score          int              `json:"burnoutRisk"`
	RiskLevel      domain.RiskLevel `json:"riskLevel"`
	Commits        int              `json:"commits"`
	PullRequests   int              `json:"pullRequests"`
	ActiveTasks    int              `json:"activeTasks"`
	CompletedTasks int              `json:"completedTasks"`
	TotalTasks     int              `json:"totalTasks"`
	LastActivity   *time.Time       `json:"lastActivity,omitempty"`
}

// MemberAlert flags a high-risk project member.
type MemberAlert struct {
	UserID     uuid.UUID        `json:"userId"`
	MemberName string           `json:"memberName"`
	Message    string           `json:"message"`
	RiskLevel  domain.RiskLevel `json:"riskLevel"`
	Score      int              `json:"burnoutRisk"`
}

// StatsSummary aggregates the member stats.
type StatsSummary struct {
	TotalMembers      int `json:"totalMembers"`
	HighRisk          int `json:"highRisk"`
	MediumRisk        int `json:"mediumRisk"`
	LowRisk           int `json:"lowRisk"`
	TotalCommits      int `json:"totalCommits"`
	TotalPullRequests int `json:"totalPullRequests"`
	TotalTasks        int `json:"totalTasks"`
}

// ProjectStats is the per-project burnout overview: members sorted by
// score descending, high-risk alerts, and totals.
type ProjectStats struct {
	ProjectID   uuid.UUID     `json:"projectId"`
	ProjectName string        `json:"projectName"`
	Members     []MemberStat  `json:"memberStats"`
	Alerts      []MemberAlert `json:"alerts"`
	Summary     StatsSummary  `json:"summary"`
}

// ProjectStatsService computes the burnout overview for a project by
// running each member through the burnout service.
type ProjectStatsService struct {
	projects tracking.ProjectRepository
	users    tracking.UserRepository
	activity tracking.ActivityRepository
	burnout  *BurnoutService
	logger   *slog.Logger
}

// NewProjectStatsService creates a project stats service.
func NewProjectStatsService(
	projects tracking.ProjectRepository,
	users tracking.UserRepository,
	activity tracking.ActivityRepository,
	burnout *BurnoutService,
	logger *slog.Logger,
) *ProjectStatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectStatsService{
		projects: projects,
		users:    users,
		activity: activity,
		burnout:  burnout,
		logger:   logger,
	}
}

// Stats computes the burnout overview for a project. Cached member
// scores within the freshness window are reused.
func (s *ProjectStatsService) Stats(ctx context.Context, projectID uuid.UUID) (*ProjectStats, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	stats := &ProjectStats{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Members:     []MemberStat{},
		Alerts:      []MemberAlert{},
	}

	for _, memberID := range project.MemberIDs {
		score, err := s.burnout.GetOrCompute(ctx, memberID, &project.ID, false)
		if err != nil {
			return nil, fmt.Errorf("score member %s: %w", memberID, err)
		}

		stat := MemberStat{
			UserID:         memberID,
			MemberName:     UnknownUser,
			Score:          score.Score,
			RiskLevel:      score.RiskLevel,
			Commits:        score.Factors.CommitsCount,
			PullRequests:   score.Factors.PullRequestsCount,
			ActiveTasks:    score.Factors.TasksInProgress,
			CompletedTasks: score.Factors.CompletedTasks,
			TotalTasks:     score.Factors.TasksInProgress + score.Factors.CompletedTasks,
		}

		if user, err := s.users.FindByID(ctx, memberID); err == nil {
			stat.MemberName = user.Name
			stat.GithubUsername = user.GithubUsername
		}

		if snapshot, err := s.activity.FindLatest(ctx, memberID, &project.ID); err == nil && snapshot != nil {
			stat.LastActivity = &snapshot.LastSynced
		}

		stats.Members = append(stats.Members, stat)
	}

	sort.SliceStable(stats.Members, func(i, j int) bool {
		return stats.Members[i].Score > stats.Members[j].Score
	})

	for _, member := range stats.Members {
		stats.Summary.TotalMembers++
		stats.Summary.TotalCommits += member.Commits
		stats.Summary.TotalPullRequests += member.PullRequests
		stats.Summary.TotalTasks += member.TotalTasks

		switch member.RiskLevel {
		case domain.RiskHigh:
			stats.Summary.HighRisk++
			stats.Alerts = append(stats.Alerts, MemberAlert{
				UserID:     member.UserID,
				MemberName: member.MemberName,
				Message: fmt.Sprintf("%s has %d active tasks and %d commits. High burnout risk detected!",
					member.MemberName, member.ActiveTasks, member.Commits),
				RiskLevel: member.RiskLevel,
				Score:     member.Score,
			})
		case domain.RiskMedium:
			stats.Summary.MediumRisk++
		default:
			stats.Summary.LowRisk++
		}
	}

	return stats, nil
}
