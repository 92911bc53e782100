package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// PostgresActivityRepository implements domain.ActivityRepository using
// PostgreSQL. One snapshot per (user, project); commits, pull requests,
// and issues are stored as JSONB documents.
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository creates a new PostgreSQL activity repository.
func NewPostgresActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

// FindLatest returns the most recently synced snapshot for the user,
// scoped to a project when one is given; (nil, nil) when none exists.
func (r *PostgresActivityRepository) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*domain.ActivitySnapshot, error) {
	query := `
		SELECT id, user_id, project_id, commits, pull_requests, issues, last_synced
		FROM github_activity
		WHERE user_id = $1
		  AND ($2::uuid IS NULL OR project_id = $2)
		ORDER BY last_synced DESC
		LIMIT 1
	`

	var (
		snapshot     domain.ActivitySnapshot
		commits      []byte
		pullRequests []byte
		issues       []byte
	)

	err := r.pool.QueryRow(ctx, query, userID, projectID).Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&snapshot.ProjectID,
		&commits,
		&pullRequests,
		&issues,
		&snapshot.LastSynced,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(commits, &snapshot.Commits); err != nil {
		return nil, fmt.Errorf("unmarshal commits: %w", err)
	}
	if err := json.Unmarshal(pullRequests, &snapshot.PullRequests); err != nil {
		return nil, fmt.Errorf("unmarshal pull requests: %w", err)
	}
	if err := json.Unmarshal(issues, &snapshot.Issues); err != nil {
		return nil, fmt.Errorf("unmarshal issues: %w", err)
	}

	return &snapshot, nil
}

// Upsert replaces the snapshot for the (user, project) key.
func (r *PostgresActivityRepository) Upsert(ctx context.Context, snapshot *domain.ActivitySnapshot) error {
	commits, err := json.Marshal(emptyIfNilCommits(snapshot.Commits))
	if err != nil {
		return fmt.Errorf("marshal commits: %w", err)
	}
	pullRequests, err := json.Marshal(emptyIfNilPRs(snapshot.PullRequests))
	if err != nil {
		return fmt.Errorf("marshal pull requests: %w", err)
	}
	issues, err := json.Marshal(emptyIfNilIssues(snapshot.Issues))
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}

	query := `
		INSERT INTO github_activity (
			id, user_id, project_id, commits, pull_requests, issues, last_synced
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, project_id) DO UPDATE SET
			commits = EXCLUDED.commits,
			pull_requests = EXCLUDED.pull_requests,
			issues = EXCLUDED.issues,
			last_synced = EXCLUDED.last_synced
	`

	_, err = r.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.ProjectID,
		commits,
		pullRequests,
		issues,
		snapshot.LastSynced,
	)
	return err
}

func emptyIfNilCommits(v []domain.Commit) []domain.Commit {
	if v == nil {
		return []domain.Commit{}
	}
	return v
}

func emptyIfNilPRs(v []domain.PullRequest) []domain.PullRequest {
	if v == nil {
		return []domain.PullRequest{}
	}
	return v
}

func emptyIfNilIssues(v []domain.Issue) []domain.Issue {
	if v == nil {
		return []domain.Issue{}
	}
	return v
}
