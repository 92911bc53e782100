package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
)

// TaskRepository reads tasks for workload aggregation.
type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
}

// UserRepository resolves user identities.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ProjectRepository reads projects and their membership.
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
}

// ActivityRepository persists GitHub activity snapshots.
// FindLatest returns the most recently synced snapshot for the user,
// scoped to a project when one is given; (nil, nil) when none exists.
type ActivityRepository interface {
	FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*ActivitySnapshot, error)
	Upsert(ctx context.Context, snapshot *ActivitySnapshot) error
}
