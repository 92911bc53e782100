// Package cache implements the latest-score fast path on Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
)

// RedisScoreCache caches the latest burnout score per (user, project)
// key. Keys are namespaced: burnout:latest:{user_id}:{project_id}.
// Entries expire with the freshness window, so a hit is always a
// candidate for reuse; staleness is still re-checked by the caller.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScoreCache creates a score cache with the given entry TTL.
func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func cacheKey(userID uuid.UUID, projectID *uuid.UUID) string {
	scope := "all"
	if projectID != nil {
		scope = projectID.String()
	}
	return fmt.Sprintf("burnout:latest:%s:%s", userID, scope)
}

// GetLatest returns the cached score, or (nil, nil) on a miss.
func (c *RedisScoreCache) GetLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*domain.BurnoutScore, error) {
	val, err := c.client.Get(ctx, cacheKey(userID, projectID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var score domain.BurnoutScore
	if err := json.Unmarshal(val, &score); err != nil {
		return nil, fmt.Errorf("unmarshal cached score: %w", err)
	}
	return &score, nil
}

// SetLatest stores the score under its (user, project) key.
func (c *RedisScoreCache) SetLatest(ctx context.Context, score *domain.BurnoutScore) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	return c.client.Set(ctx, cacheKey(score.UserID, score.ProjectID), payload, c.ttl).Err()
}
