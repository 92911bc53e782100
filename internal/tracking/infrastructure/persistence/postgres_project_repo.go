package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// PostgresProjectRepository implements domain.ProjectRepository using
// PostgreSQL.
type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProjectRepository creates a new PostgreSQL project repository.
func NewPostgresProjectRepository(pool *pgxpool.Pool) *PostgresProjectRepository {
	return &PostgresProjectRepository{pool: pool}
}

// FindByID retrieves a project with its member list.
func (r *PostgresProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT id, name, description, COALESCE(github_link, ''), created_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.GithubLink,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	memberQuery := `
		SELECT user_id
		FROM project_members
		WHERE project_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, memberQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var memberID uuid.UUID
		if err := rows.Scan(&memberID); err != nil {
			return nil, err
		}
		project.MemberIDs = append(project.MemberIDs, memberID)
	}
	return &project, rows.Err()
}
