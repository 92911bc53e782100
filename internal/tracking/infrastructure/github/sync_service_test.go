package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

type mockProjectRepo struct{ mock.Mock }

func (m *mockProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockActivityRepo struct{ mock.Mock }

func (m *mockActivityRepo) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*domain.ActivitySnapshot, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivitySnapshot), args.Error(1)
}

func (m *mockActivityRepo) Upsert(ctx context.Context, snapshot *domain.ActivitySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) ListCommits(ctx context.Context, owner, repo, author string) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) ListPullRequests(ctx context.Context, owner, repo, author string) ([]domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func TestSyncService_SyncProject(t *testing.T) {
	projectID := uuid.New()
	managerID := uuid.New()
	devID := uuid.New()
	noGithubID := uuid.New()
	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)

	projects := new(mockProjectRepo)
	projects.On("FindByID", mock.Anything, projectID).Return(&domain.Project{
		ID:         projectID,
		Name:       "Widget",
		GithubLink: "https://github.com/acme/widget",
		MemberIDs:  []uuid.UUID{managerID, devID, noGithubID},
	}, nil)

	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, managerID).Return(&domain.User{
		ID: managerID, Name: "Mana", Role: "manager", GithubUsername: "mana", GithubToken: "mgr-token",
	}, nil)
	users.On("FindByID", mock.Anything, devID).Return(&domain.User{
		ID: devID, Name: "Dev", Role: "developer", GithubUsername: "devgh",
	}, nil)
	users.On("FindByID", mock.Anything, noGithubID).Return(&domain.User{
		ID: noGithubID, Name: "NoGH", Role: "developer",
	}, nil)

	fetcher := new(mockFetcher)
	fetcher.On("ListCommits", mock.Anything, "acme", "widget", "mana").
		Return([]domain.Commit{{SHA: "a"}, {SHA: "b"}}, nil)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "widget", "mana").
		Return([]domain.PullRequest{{Title: "PR"}}, nil)
	fetcher.On("ListCommits", mock.Anything, "acme", "widget", "devgh").
		Return(nil, errors.New("403 rate limited"))

	var tokenUsed string
	factory := func(token string) ActivityFetcher {
		tokenUsed = token
		return fetcher
	}

	activity := new(mockActivityRepo)
	activity.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.ActivitySnapshot) bool {
		return s.UserID == managerID && s.ProjectID == projectID && len(s.Commits) == 2 && s.LastSynced.Equal(now)
	})).Return(nil).Once()

	svc := NewSyncService(projects, users, activity, factory, nil)
	svc.now = func() time.Time { return now }

	results, err := svc.SyncProject(context.Background(), projectID)
	require.NoError(t, err)

	assert.Equal(t, "mgr-token", tokenUsed)
	// The member without a GitHub username is skipped entirely.
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, 2, results[0].Commits)
	assert.Equal(t, 1, results[0].PullRequests)

	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "rate limited")

	activity.AssertExpectations(t)
}

func TestSyncService_InvalidRepoLink(t *testing.T) {
	projectID := uuid.New()

	projects := new(mockProjectRepo)
	projects.On("FindByID", mock.Anything, projectID).Return(&domain.Project{
		ID:         projectID,
		GithubLink: "not a repo url",
	}, nil)

	svc := NewSyncService(projects, new(mockUserRepo), new(mockActivityRepo), nil, nil)

	_, err := svc.SyncProject(context.Background(), projectID)
	assert.ErrorIs(t, err, ErrNoRepoLink)
}

func TestSyncService_NoTokenConfigured(t *testing.T) {
	projectID := uuid.New()
	devID := uuid.New()

	projects := new(mockProjectRepo)
	projects.On("FindByID", mock.Anything, projectID).Return(&domain.Project{
		ID:         projectID,
		GithubLink: "https://github.com/acme/widget",
		MemberIDs:  []uuid.UUID{devID},
	}, nil)

	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, devID).Return(&domain.User{
		ID: devID, Name: "Dev", GithubUsername: "devgh",
	}, nil)

	svc := NewSyncService(projects, users, new(mockActivityRepo), nil, nil)

	_, err := svc.SyncProject(context.Background(), projectID)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSyncService_MissingMemberRecordIsSkipped(t *testing.T) {
	projectID := uuid.New()
	ghostID := uuid.New()
	managerID := uuid.New()

	projects := new(mockProjectRepo)
	projects.On("FindByID", mock.Anything, projectID).Return(&domain.Project{
		ID:         projectID,
		GithubLink: "https://github.com/acme/widget",
		MemberIDs:  []uuid.UUID{ghostID, managerID},
	}, nil)

	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, ghostID).Return(nil, domain.ErrUserNotFound)
	users.On("FindByID", mock.Anything, managerID).Return(&domain.User{
		ID: managerID, Name: "Mana", Role: "manager", GithubUsername: "mana", GithubToken: "tok",
	}, nil)

	fetcher := new(mockFetcher)
	fetcher.On("ListCommits", mock.Anything, "acme", "widget", "mana").Return([]domain.Commit{}, nil)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "widget", "mana").Return([]domain.PullRequest{}, nil)

	activity := new(mockActivityRepo)
	activity.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewSyncService(projects, users, activity, func(string) ActivityFetcher { return fetcher }, nil)

	results, err := svc.SyncProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}
