// Package persistence implements the tracking stores on PostgreSQL.
package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// PostgresTaskRepository implements domain.TaskRepository using
// PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// List returns tasks matching the filter, newest first.
func (r *PostgresTaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, assigned_to, created_by,
		       status, priority, estimate_hours, real_hours,
		       due_date, started_at, completed_at, created_at, updated_at
		FROM tasks
		WHERE ($1::uuid IS NULL OR assigned_to = $1)
		  AND ($2::uuid IS NULL OR project_id = $2)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.Assignee, filter.Project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			task     domain.Task
			status   string
			priority string
		)
		err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.AssignedTo,
			&task.CreatedBy,
			&status,
			&priority,
			&task.EstimateHours,
			&task.RealHours,
			&task.DueDate,
			&task.StartedAt,
			&task.CompletedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		task.Status = domain.TaskStatus(status)
		task.Priority = domain.TaskPriority(priority)
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
