package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/application/services"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
	tracking "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/infrastructure/github"
)

// stubScoreRepo is an in-memory implementation of domain.ScoreRepository.
type stubScoreRepo struct {
	entries []*domain.BurnoutScore
}

func (r *stubScoreRepo) Save(ctx context.Context, score *domain.BurnoutScore) error {
	r.entries = append(r.entries, score)
	return nil
}

func (r *stubScoreRepo) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, since time.Time) (*domain.BurnoutScore, error) {
	var latest *domain.BurnoutScore
	for _, entry := range r.entries {
		if entry.UserID != userID || entry.CreatedAt.Before(since) {
			continue
		}
		if !sameProject(entry.ProjectID, projectID) {
			continue
		}
		if latest == nil || entry.CreatedAt.After(latest.CreatedAt) {
			latest = entry
		}
	}
	return latest, nil
}

func (r *stubScoreRepo) ListByUser(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*domain.BurnoutScore, error) {
	var result []*domain.BurnoutScore
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if entry.UserID != userID {
			continue
		}
		if projectID != nil && !sameProject(entry.ProjectID, projectID) {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func sameProject(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type stubTaskRepo struct {
	tasks []tracking.Task
}

func (r *stubTaskRepo) List(ctx context.Context, filter tracking.TaskFilter) ([]tracking.Task, error) {
	var result []tracking.Task
	for _, task := range r.tasks {
		if filter.Assignee != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.Assignee) {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*tracking.User
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*tracking.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, tracking.ErrUserNotFound
	}
	return user, nil
}

type stubProjectRepo struct {
	projects map[uuid.UUID]*tracking.Project
}

func (r *stubProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, tracking.ErrProjectNotFound
	}
	return project, nil
}

type stubActivityRepo struct {
	snapshots map[uuid.UUID]*tracking.ActivitySnapshot
}

func (r *stubActivityRepo) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*tracking.ActivitySnapshot, error) {
	return r.snapshots[userID], nil
}

func (r *stubActivityRepo) Upsert(ctx context.Context, snapshot *tracking.ActivitySnapshot) error {
	r.snapshots[snapshot.UserID] = snapshot
	return nil
}

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return g.reply, nil
}

type stubModels []string

func (s stubModels) Candidates(ctx context.Context) []string { return s }

type stubFetcher struct {
	commits []tracking.Commit
	pulls   []tracking.PullRequest
}

func (f *stubFetcher) ListCommits(ctx context.Context, owner, repo, author string) ([]tracking.Commit, error) {
	return f.commits, nil
}

func (f *stubFetcher) ListPullRequests(ctx context.Context, owner, repo, author string) ([]tracking.PullRequest, error) {
	return f.pulls, nil
}

type testEnv struct {
	server    *Server
	userID    uuid.UUID
	projectID uuid.UUID
	scores    *stubScoreRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userID := uuid.New()
	projectID := uuid.New()

	users := &stubUserRepo{users: map[uuid.UUID]*tracking.User{
		userID: {ID: userID, Name: "Ana", Role: "manager", GithubUsername: "ana", GithubToken: "tok"},
	}}
	projects := &stubProjectRepo{projects: map[uuid.UUID]*tracking.Project{
		projectID: {
			ID:         projectID,
			Name:       "Widget",
			GithubLink: "https://github.com/acme/widget",
			MemberIDs:  []uuid.UUID{userID},
		},
	}}
	tasks := &stubTaskRepo{tasks: []tracking.Task{
		{AssignedTo: &userID, Status: tracking.TaskStatusInProgress},
		{AssignedTo: &userID, Status: tracking.TaskStatusDone},
	}}
	activity := &stubActivityRepo{snapshots: map[uuid.UUID]*tracking.ActivitySnapshot{}}
	scores := &stubScoreRepo{}

	generator := &stubGenerator{
		reply: `{"score": 62, "riskLevel": "medium", "analysis": "Busy but stable.", "recommendations": ["a", "b", "c"]}`,
	}

	aggregator := services.NewSignalAggregator(tasks, users, activity, 10, nil)
	engine := services.NewScoreEngine(generator, stubModels{"gemini-1.5-flash"}, nil)
	burnout := services.NewBurnoutService(services.BurnoutServiceConfig{
		Scores:     scores,
		Aggregator: aggregator,
		Engine:     engine,
		Freshness:  time.Hour,
	})
	stats := services.NewProjectStatsService(projects, users, activity, burnout, nil)
	sync := github.NewSyncService(projects, users, activity, func(string) github.ActivityFetcher {
		return &stubFetcher{commits: []tracking.Commit{{SHA: "abc"}}}
	}, nil)

	handler := NewBurnoutHandler(BurnoutHandlerConfig{
		Burnout: burnout,
		Stats:   stats,
		Sync:    sync,
	})

	return &testEnv{
		server:    NewServer(DefaultServerConfig(), handler, nil),
		userID:    userID,
		projectID: projectID,
		scores:    scores,
	}
}

func (e *testEnv) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.server.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetUserBurnout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout")
	require.Equal(t, http.StatusOK, rec.Code)

	var score domain.BurnoutScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 62, score.Score)
	assert.Equal(t, domain.RiskMedium, score.RiskLevel)
	assert.Equal(t, "gemini-1.5-flash", score.ModelUsed)

	// The computation was persisted.
	require.Len(t, env.scores.entries, 1)

	// A second request reuses the stored entry instead of recomputing.
	rec = env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.scores.entries, 1)
}

func TestGetUserBurnout_RefreshAppends(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout")
	env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout?refresh=true")

	assert.Len(t, env.scores.entries, 2)
}

func TestGetUserBurnout_BadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/users/not-a-uuid/burnout")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout?project_id=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserBurnoutHistory(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout?refresh=true")
	env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout?refresh=true")

	rec := env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []domain.BurnoutScore `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.History, 1)

	rec = env.do(http.MethodGet, "/api/v1/users/"+env.userID.String()+"/burnout/history?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectBurnout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/projects/"+env.projectID.String()+"/burnout")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.ProjectStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "Widget", stats.ProjectName)
	require.Len(t, stats.Members, 1)
	assert.Equal(t, "Ana", stats.Members[0].MemberName)
	assert.Equal(t, 1, stats.Summary.TotalMembers)
}

func TestGetProjectBurnout_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/projects/"+uuid.NewString()+"/burnout")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncProjectActivity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/projects/"+env.projectID.String()+"/github/sync")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []github.MemberSyncResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.True(t, body.Results[0].Success)
	assert.Equal(t, 1, body.Results[0].Commits)
}

func TestSyncProjectActivity_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/github/sync")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
