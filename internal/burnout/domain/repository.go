package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScoreRepository persists burnout scores as an append-only history.
type ScoreRepository interface {
	// Save appends a new score entry.
	Save(ctx context.Context, score *BurnoutScore) error
	// FindLatest returns the most recent entry for the (user, project)
	// key created at or after since; (nil, nil) when none exists.
	FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, since time.Time) (*BurnoutScore, error)
	// ListByUser returns entries for a user newest first, optionally
	// scoped to a project, limited to limit entries (0 = no limit).
	ListByUser(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*BurnoutScore, error)
}
