// Package app wires configuration, infrastructure, and services into a
// runnable application container.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/application/services"
	burnoutCache "github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/infrastructure/cache"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/infrastructure/genai"
	burnoutPersistence "github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/infrastructure/persistence"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/shared/infrastructure/eventbus"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/shared/infrastructure/migrations"
	trackingDomain "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/infrastructure/github"
	trackingPersistence "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/infrastructure/persistence"
	"github.com/nico-stef/aihack-2025-NeuroCore/pkg/config"
)

// Container holds the application's wired dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DB          *pgxpool.Pool
	RedisClient *redis.Client

	EventPublisher eventbus.Publisher

	TaskRepo     trackingDomain.TaskRepository
	UserRepo     trackingDomain.UserRepository
	ProjectRepo  trackingDomain.ProjectRepository
	ActivityRepo trackingDomain.ActivityRepository

	BurnoutService *services.BurnoutService
	StatsService   *services.ProjectStatsService
	SyncService    *github.SyncService
}

// NewContainer connects infrastructure and wires the services.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Connect to PostgreSQL
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.DB = pool
	logger.Info("connected to database")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Connect to Redis (optional in development)
	var scoreCache services.LatestScoreCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, score cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, score cache disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				scoreCache = burnoutCache.NewRedisScoreCache(redisClient, cfg.ScoreFreshness)
				logger.Info("connected to Redis")
			}
		}
	}

	// Create event publisher
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	// Create repositories
	c.TaskRepo = trackingPersistence.NewPostgresTaskRepository(pool)
	c.UserRepo = trackingPersistence.NewPostgresUserRepository(pool)
	c.ProjectRepo = trackingPersistence.NewPostgresProjectRepository(pool)
	c.ActivityRepo = trackingPersistence.NewPostgresActivityRepository(pool)
	scoreRepo := burnoutPersistence.NewPostgresScoreRepository(pool)

	// Create the scoring pipeline
	genaiClient := genai.NewClient(genai.Config{
		APIKey:           cfg.GeminiAPIKey,
		Endpoint:         cfg.GeminiEndpoint,
		Timeout:          cfg.GeminiTimeout,
		BreakerEnabled:   cfg.BreakerEnabled,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  cfg.BreakerCooldown,
	}, logger)
	catalog := genai.NewModelCatalog(genaiClient, cfg.GeminiModels, cfg.ModelCacheTTL, logger)

	aggregator := services.NewSignalAggregator(c.TaskRepo, c.UserRepo, c.ActivityRepo, cfg.CommitSampleSize, logger)
	engine := services.NewScoreEngine(genaiClient, catalog, logger)

	c.BurnoutService = services.NewBurnoutService(services.BurnoutServiceConfig{
		Scores:     scoreRepo,
		Aggregator: aggregator,
		Engine:     engine,
		Cache:      scoreCache,
		Publisher:  c.EventPublisher,
		Freshness:  cfg.ScoreFreshness,
		Logger:     logger,
	})
	c.StatsService = services.NewProjectStatsService(c.ProjectRepo, c.UserRepo, c.ActivityRepo, c.BurnoutService, logger)
	c.SyncService = github.NewSyncService(c.ProjectRepo, c.UserRepo, c.ActivityRepo,
		func(token string) github.ActivityFetcher {
			return github.NewClient(token, cfg.GithubAPIURL)
		}, logger)

	return c, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
