package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

var (
	// ErrNoRepoLink indicates the project has no parseable GitHub link.
	ErrNoRepoLink = errors.New("project has no valid github repository link")
	// ErrNoToken indicates no project member has a GitHub token configured.
	ErrNoToken = errors.New("no github token configured for project")
)

var repoLinkPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// ParseRepoLink extracts the owner and repository name from a GitHub
// URL. The ".git" suffix is tolerated.
func ParseRepoLink(link string) (owner, repo string, err error) {
	match := repoLinkPattern.FindStringSubmatch(link)
	if match == nil {
		return "", "", ErrNoRepoLink
	}
	return match[1], strings.TrimSuffix(match[2], ".git"), nil
}

// ActivityFetcher fetches one member's repository activity.
type ActivityFetcher interface {
	ListCommits(ctx context.Context, owner, repo, author string) ([]domain.Commit, error)
	ListPullRequests(ctx context.Context, owner, repo, author string) ([]domain.PullRequest, error)
}

// FetcherFactory builds a token-scoped fetcher.
type FetcherFactory func(token string) ActivityFetcher

// MemberSyncResult reports one member's sync outcome.
type MemberSyncResult struct {
	UserID         uuid.UUID `json:"userId"`
	Name           string    `json:"name"`
	GithubUsername string    `json:"githubUsername"`
	Commits        int       `json:"commits"`
	PullRequests   int       `json:"pullRequests"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
}

// SyncService refreshes per-member activity snapshots from the
// project's linked GitHub repository.
type SyncService struct {
	projects domain.ProjectRepository
	users    domain.UserRepository
	activity domain.ActivityRepository
	fetcher  FetcherFactory
	logger   *slog.Logger
	now      func() time.Time
}

// NewSyncService creates a sync service.
func NewSyncService(
	projects domain.ProjectRepository,
	users domain.UserRepository,
	activity domain.ActivityRepository,
	fetcher FetcherFactory,
	logger *slog.Logger,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		projects: projects,
		users:    users,
		activity: activity,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncProject fetches commits and pull requests for every member with a
// GitHub username and replaces their activity snapshots. A member whose
// fetch fails is reported in the results without aborting the sync.
//
// The token is taken from a manager member when one has it, otherwise
// from any member that does.
func (s *SyncService) SyncProject(ctx context.Context, projectID uuid.UUID) ([]MemberSyncResult, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	owner, repo, err := ParseRepoLink(project.GithubLink)
	if err != nil {
		return nil, err
	}

	members := make([]*domain.User, 0, len(project.MemberIDs))
	for _, memberID := range project.MemberIDs {
		user, err := s.users.FindByID(ctx, memberID)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("project member has no user record", "user_id", memberID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve member %s: %w", memberID, err)
		}
		members = append(members, user)
	}

	token := syncToken(members)
	if token == "" {
		return nil, ErrNoToken
	}

	fetcher := s.fetcher(token)
	results := make([]MemberSyncResult, 0, len(members))

	for _, member := range members {
		if member.GithubUsername == "" {
			continue
		}

		result := MemberSyncResult{
			UserID:         member.ID,
			Name:           member.Name,
			GithubUsername: member.GithubUsername,
		}

		commits, err := fetcher.ListCommits(ctx, owner, repo, member.GithubUsername)
		if err == nil {
			var pulls []domain.PullRequest
			pulls, err = fetcher.ListPullRequests(ctx, owner, repo, member.GithubUsername)
			if err == nil {
				snapshot := &domain.ActivitySnapshot{
					ID:           uuid.New(),
					UserID:       member.ID,
					ProjectID:    project.ID,
					Commits:      commits,
					PullRequests: pulls,
					Issues:       []domain.Issue{},
					LastSynced:   s.now(),
				}
				err = s.activity.Upsert(ctx, snapshot)
				if err == nil {
					result.Commits = len(commits)
					result.PullRequests = len(pulls)
					result.Success = true
				}
			}
		}

		if err != nil {
			s.logger.Warn("member sync failed",
				"project_id", projectID,
				"github_username", member.GithubUsername,
				"error", err,
			)
			result.Error = err.Error()
		}

		results = append(results, result)
	}

	s.logger.Info("github sync finished",
		"project_id", projectID,
		"repo", owner+"/"+repo,
		"members", len(results),
	)
	return results, nil
}

func syncToken(members []*domain.User) string {
	for _, member := range members {
		if member.Role == "manager" && member.GithubToken != "" {
			return member.GithubToken
		}
	}
	for _, member := range members {
		if member.GithubToken != "" {
			return member.GithubToken
		}
	}
	return ""
}
