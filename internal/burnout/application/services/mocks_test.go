package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
	tracking "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// mockTaskRepo is a mock implementation of tracking.TaskRepository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) List(ctx context.Context, filter tracking.TaskFilter) ([]tracking.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.Task), args.Error(1)
}

// mockUserRepo is a mock implementation of tracking.UserRepository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*tracking.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.User), args.Error(1)
}

// mockProjectRepo is a mock implementation of tracking.ProjectRepository.
type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Project), args.Error(1)
}

// mockActivityRepo is a mock implementation of tracking.ActivityRepository.
type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*tracking.ActivitySnapshot, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.ActivitySnapshot), args.Error(1)
}

func (m *mockActivityRepo) Upsert(ctx context.Context, snapshot *tracking.ActivitySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// mockScoreRepo is a mock implementation of domain.ScoreRepository.
type mockScoreRepo struct {
	mock.Mock
}

func (m *mockScoreRepo) Save(ctx context.Context, score *domain.BurnoutScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *mockScoreRepo) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, since time.Time) (*domain.BurnoutScore, error) {
	args := m.Called(ctx, userID, projectID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BurnoutScore), args.Error(1)
}

func (m *mockScoreRepo) ListByUser(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*domain.BurnoutScore, error) {
	args := m.Called(ctx, userID, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BurnoutScore), args.Error(1)
}

// mockGenerator is a mock implementation of Generator.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	args := m.Called(ctx, model, prompt)
	return args.String(0), args.Error(1)
}

// staticCandidates is a CandidateSource backed by a fixed list.
type staticCandidates []string

func (s staticCandidates) Candidates(ctx context.Context) []string {
	return s
}

// mockScoreCache is a mock implementation of LatestScoreCache.
type mockScoreCache struct {
	mock.Mock
}

func (m *mockScoreCache) GetLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*domain.BurnoutScore, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BurnoutScore), args.Error(1)
}

func (m *mockScoreCache) SetLatest(ctx context.Context, score *domain.BurnoutScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

// mockPublisher is a mock implementation of AlertPublisher.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}
