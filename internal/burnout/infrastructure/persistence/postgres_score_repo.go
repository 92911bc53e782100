// Package persistence implements the burnout score store on PostgreSQL.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
)

// PostgresScoreRepository implements domain.ScoreRepository using
// PostgreSQL. Scores are append-only: Save always inserts.
type PostgresScoreRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScoreRepository creates a new PostgreSQL score repository.
func NewPostgresScoreRepository(pool *pgxpool.Pool) *PostgresScoreRepository {
	return &PostgresScoreRepository{pool: pool}
}

// Save appends a new score entry.
func (r *PostgresScoreRepository) Save(ctx context.Context, score *domain.BurnoutScore) error {
	factors, err := json.Marshal(score.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}

	recommendations, err := json.Marshal(score.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO burnout_scores (
			id, user_id, project_id, score, risk_level, week, year,
			factors, analysis, recommendations, model_used, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		score.ID,
		score.UserID,
		score.ProjectID,
		score.Score,
		string(score.RiskLevel),
		score.Week,
		score.Year,
		factors,
		score.Analysis,
		recommendations,
		score.ModelUsed,
		score.CreatedAt,
	)
	return err
}

// FindLatest returns the most recent entry for the (user, project) key
// created at or after since; (nil, nil) when none exists.
func (r *PostgresScoreRepository) FindLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, since time.Time) (*domain.BurnoutScore, error) {
	query := `
		SELECT id, user_id, project_id, score, risk_level, week, year,
		       factors, analysis, recommendations, model_used, created_at
		FROM burnout_scores
		WHERE user_id = $1
		  AND project_id IS NOT DISTINCT FROM $2
		  AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	score, err := scanScore(r.pool.QueryRow(ctx, query, userID, projectID, since))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return score, nil
}

// ListByUser returns entries for a user newest first, optionally scoped
// to a project.
func (r *PostgresScoreRepository) ListByUser(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*domain.BurnoutScore, error) {
	query := `
		SELECT id, user_id, project_id, score, risk_level, week, year,
		       factors, analysis, recommendations, model_used, created_at
		FROM burnout_scores
		WHERE user_id = $1
		  AND ($2::uuid IS NULL OR project_id = $2)
		ORDER BY created_at DESC
	`
	args := []any{userID, projectID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*domain.BurnoutScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func scanScore(row pgx.Row) (*domain.BurnoutScore, error) {
	var (
		score           domain.BurnoutScore
		riskLevel       string
		factors         []byte
		recommendations []byte
	)

	err := row.Scan(
		&score.ID,
		&score.UserID,
		&score.ProjectID,
		&score.Score,
		&riskLevel,
		&score.Week,
		&score.Year,
		&factors,
		&score.Analysis,
		&recommendations,
		&score.ModelUsed,
		&score.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	score.RiskLevel = domain.RiskLevel(riskLevel)
	if err := json.Unmarshal(factors, &score.Factors); err != nil {
		return nil, fmt.Errorf("unmarshal factors: %w", err)
	}
	if err := json.Unmarshal(recommendations, &score.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}

	return &score, nil
}
