package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
)

// ErrMissingSubject indicates the caller omitted the user identifier.
var ErrMissingSubject = errors.New("missing subject user id")

// AlertRoutingKey is the routing key for high-risk burnout alerts.
const AlertRoutingKey = "burnout.alert.high"

// LatestScoreCache is an optional fast-path cache in front of the score
// history. Both methods are best effort for the service: a cache error
// is logged, never surfaced.
type LatestScoreCache interface {
	GetLatest(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (*domain.BurnoutScore, error)
	SetLatest(ctx context.Context, score *domain.BurnoutScore) error
}

// AlertPublisher emits events for freshly computed high-risk scores.
type AlertPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// BurnoutAlert is the payload published when a fresh computation
// classifies as high risk.
type BurnoutAlert struct {
	UserID     uuid.UUID  `json:"userId"`
	ProjectID  *uuid.UUID `json:"projectId,omitempty"`
	MemberName string     `json:"memberName"`
	Score      int        `json:"score"`
	RiskLevel  string     `json:"riskLevel"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// BurnoutServiceConfig holds dependencies for the burnout service.
type BurnoutServiceConfig struct {
	Scores     domain.ScoreRepository
	Aggregator *SignalAggregator
	Engine     *ScoreEngine
	// Cache is optional; nil disables the fast path.
	Cache LatestScoreCache
	// Publisher is optional; nil disables alert events.
	Publisher AlertPublisher
	Freshness time.Duration
	Logger    *slog.Logger
}

// BurnoutService is the single entry point for burnout scores: return a
// fresh cached entry, or aggregate signals, compute (AI path with
// deterministic fallback), persist, and return.
type BurnoutService struct {
	scores     domain.ScoreRepository
	aggregator *SignalAggregator
	engine     *ScoreEngine
	cache      LatestScoreCache
	publisher  AlertPublisher
	freshness  time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewBurnoutService creates the burnout service.
func NewBurnoutService(cfg BurnoutServiceConfig) *BurnoutService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = time.Hour
	}
	return &BurnoutService{
		scores:     cfg.Scores,
		aggregator: cfg.Aggregator,
		engine:     cfg.Engine,
		cache:      cfg.Cache,
		publisher:  cfg.Publisher,
		freshness:  cfg.Freshness,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// GetOrCompute returns the burnout score for (userID, projectID).
// A cached entry within the freshness window is returned as-is unless
// forceRefresh is set; otherwise a new entry is computed, persisted,
// and returned. Refreshes always append: prior entries are retained.
//
// AI unavailability never surfaces as an error; only a store outage or
// a missing subject does.
func (s *BurnoutService) GetOrCompute(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, forceRefresh bool) (*domain.BurnoutScore, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingSubject
	}

	now := s.now()

	if !forceRefresh {
		if cached := s.cachedScore(ctx, userID, projectID, now); cached != nil {
			return cached, nil
		}

		existing, err := s.scores.FindLatest(ctx, userID, projectID, now.Add(-s.freshness))
		if err != nil {
			return nil, fmt.Errorf("read score history: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	signals, err := s.aggregator.Aggregate(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	comp, err := s.engine.Compute(ctx, signals)
	if errors.Is(err, ErrModelsExhausted) {
		s.logger.Warn("all candidate models failed, using deterministic fallback", "user_id", userID)
		comp = FallbackComputation(signals)
	} else if err != nil {
		return nil, fmt.Errorf("compute score: %w", err)
	}

	year, week := now.ISOWeek()
	score := &domain.BurnoutScore{
		ID:              uuid.New(),
		UserID:          userID,
		ProjectID:       projectID,
		Score:           comp.Score,
		RiskLevel:       comp.RiskLevel,
		Week:            week,
		Year:            year,
		Factors:         comp.Factors,
		Analysis:        comp.Analysis,
		Recommendations: comp.Recommendations,
		ModelUsed:       comp.ModelUsed,
		CreatedAt:       now,
	}

	// A failed cache write degrades to read-through: the computed score
	// is still returned.
	if err := s.scores.Save(ctx, score); err != nil {
		s.logger.Error("failed to persist burnout score", "user_id", userID, "error", err)
	} else if s.cache != nil {
		if err := s.cache.SetLatest(ctx, score); err != nil {
			s.logger.Warn("failed to update score cache", "user_id", userID, "error", err)
		}
	}

	if score.RiskLevel == domain.RiskHigh {
		s.publishAlert(ctx, score, signals)
	}

	return score, nil
}

// History returns score entries for a user, newest first.
func (s *BurnoutService) History(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*domain.BurnoutScore, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingSubject
	}
	return s.scores.ListByUser(ctx, userID, projectID, limit)
}

func (s *BurnoutService) cachedScore(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, now time.Time) *domain.BurnoutScore {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetLatest(ctx, userID, projectID)
	if err != nil {
		s.logger.Warn("score cache read failed", "user_id", userID, "error", err)
		return nil
	}
	if cached == nil || !cached.IsFresh(now, s.freshness) {
		return nil
	}
	return cached
}

func (s *BurnoutService) publishAlert(ctx context.Context, score *domain.BurnoutScore, signals domain.SignalBundle) {
	if s.publisher == nil {
		return
	}

	alert := BurnoutAlert{
		UserID:     score.UserID,
		ProjectID:  score.ProjectID,
		MemberName: signals.UserDisplayName,
		Score:      score.Score,
		RiskLevel:  string(score.RiskLevel),
		Message: fmt.Sprintf("%s has %d active tasks and %d commits. High burnout risk detected!",
			signals.UserDisplayName, signals.TasksInProgress, signals.CommitsCount),
		CreatedAt: score.CreatedAt,
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		s.logger.Error("failed to marshal burnout alert", "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, AlertRoutingKey, payload); err != nil {
		s.logger.Warn("failed to publish burnout alert", "user_id", score.UserID, "error", err)
	}
}
