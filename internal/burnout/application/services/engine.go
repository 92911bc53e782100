// Package services implements burnout score computation: signal
// aggregation, the AI scoring path with its model fallback chain, the
// deterministic fallback calculator, and the cache-or-compute
// orchestration.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
)

// ErrModelsExhausted indicates every candidate model failed; the caller
// must switch to the deterministic fallback path.
var ErrModelsExhausted = errors.New("all candidate models exhausted")

// Generator produces raw text from a named generative model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// CandidateSource supplies the ordered candidate model list, most to
// least preferred.
type CandidateSource interface {
	Candidates(ctx context.Context) []string
}

// Computation is the outcome of one score computation, AI or fallback.
type Computation struct {
	Score           int
	RiskLevel       domain.RiskLevel
	Factors         domain.Factors
	Analysis        string
	Recommendations []string
	ModelUsed       string
}

// ScoreEngine turns a signal bundle into a burnout score by trying each
// candidate model in order until one returns a well-formed reply.
type ScoreEngine struct {
	generator  Generator
	candidates CandidateSource
	logger     *slog.Logger
}

// NewScoreEngine creates a score engine.
func NewScoreEngine(generator Generator, candidates CandidateSource, logger *slog.Logger) *ScoreEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreEngine{
		generator:  generator,
		candidates: candidates,
		logger:     logger,
	}
}

// Compute runs the AI scoring path. Each candidate model gets exactly
// one attempt; any failure (transport, malformed reply, missing fields)
// moves on to the next candidate. Returns ErrModelsExhausted when no
// candidate produced a usable reply.
func (e *ScoreEngine) Compute(ctx context.Context, signals domain.SignalBundle) (*Computation, error) {
	prompt := buildPrompt(signals)

	for _, model := range e.candidates.Candidates(ctx) {
		raw, err := e.generator.Generate(ctx, model, prompt)
		if err != nil {
			e.logger.Warn("candidate model failed", "model", model, "error", err)
			continue
		}

		comp, err := parseModelReply(raw)
		if err != nil {
			e.logger.Warn("candidate model reply rejected", "model", model, "error", err)
			continue
		}

		// The model's self-reported risk level is advisory; the
		// threshold classifier is authoritative.
		derived := domain.ClassifyRisk(comp.Score)
		if comp.RiskLevel != derived {
			e.logger.Debug("model risk level disagrees with thresholds",
				"model", model,
				"reported", comp.RiskLevel,
				"derived", derived,
			)
		}
		comp.RiskLevel = derived
		comp.Factors = aiFactors(signals)
		comp.ModelUsed = model

		e.logger.Info("score computed", "model", model, "score", comp.Score)
		return comp, nil
	}

	return nil, ErrModelsExhausted
}

const promptTemplate = `You are an engineering-manager assistant estimating burnout risk for a software developer.

Developer: %s

Version-control activity:
- Commits: %d
- Pull requests: %d
- Issues: %d
- Recent commit messages (most recent first):
%s

Task workload:
- Tasks in progress: %d
- Completed tasks: %d
- Overdue tasks: %d
- Total tasks: %d

Consider commit frequency and patterns, linguistic stress signals in the commit messages, workload balance, pressure from overdue tasks, and signs of over- or under-engagement.

Respond with ONLY a JSON object, no other text:
{"score": <0-100>, "riskLevel": "<low|medium|high>", "factors": {"commitsCount": %d, "tasksInProgress": %d, "completedTasks": %d, "overdueTasks": %d, "pullRequestsCount": %d}, "analysis": "<2-3 sentence explanation>", "recommendations": ["<suggestion>", "<suggestion>", "<suggestion>"]}

The recommendations array must contain exactly 3 short, actionable suggestions.`

func buildPrompt(signals domain.SignalBundle) string {
	messages := "  (none)"
	if len(signals.RecentCommitMessages) > 0 {
		var b strings.Builder
		for _, msg := range signals.RecentCommitMessages {
			b.WriteString("  - ")
			b.WriteString(strings.SplitN(msg, "\n", 2)[0])
			b.WriteString("\n")
		}
		messages = strings.TrimRight(b.String(), "\n")
	}

	return fmt.Sprintf(promptTemplate,
		signals.UserDisplayName,
		signals.CommitsCount,
		signals.PullRequestsCount,
		signals.IssuesCount,
		messages,
		signals.TasksInProgress,
		signals.CompletedTasks,
		signals.OverdueTasks,
		signals.TotalTasks,
		signals.CommitsCount,
		signals.TasksInProgress,
		signals.CompletedTasks,
		signals.OverdueTasks,
		signals.PullRequestsCount,
	)
}

// modelReply is the strict schema a candidate model must produce.
type modelReply struct {
	Score           *int     `json:"score"`
	RiskLevel       string   `json:"riskLevel"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// parseModelReply strips any markdown code fencing and validates the
// reply against the required schema. Any missing or out-of-range field
// is a candidate failure, not a partially trusted result.
func parseModelReply(raw string) (*Computation, error) {
	cleaned := extractJSON(raw)

	var reply modelReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("reply is not valid JSON: %w", err)
	}

	if reply.Score == nil {
		return nil, errors.New("reply missing score")
	}
	if *reply.Score < 0 || *reply.Score > 100 {
		return nil, fmt.Errorf("score %d out of range", *reply.Score)
	}
	if strings.TrimSpace(reply.Analysis) == "" {
		return nil, errors.New("reply missing analysis")
	}
	if len(reply.Recommendations) != 3 {
		return nil, fmt.Errorf("expected 3 recommendations, got %d", len(reply.Recommendations))
	}

	return &Computation{
		Score:           *reply.Score,
		RiskLevel:       domain.RiskLevel(reply.RiskLevel),
		Analysis:        reply.Analysis,
		Recommendations: reply.Recommendations,
	}, nil
}

// extractJSON strips a surrounding markdown code fence, if any.
func extractJSON(text string) string {
	start := 0
	if idx := strings.Index(text, "```json"); idx != -1 {
		start = idx + len("```json")
	} else if idx := strings.Index(text, "```"); idx != -1 {
		start = idx + len("```")
	}

	end := len(text)
	if idx := strings.LastIndex(text, "```"); idx > start {
		end = idx
	}

	return strings.TrimSpace(text[start:end])
}

// aiFactors echoes the aggregated counts into the persisted factor
// record for the AI path.
func aiFactors(signals domain.SignalBundle) domain.Factors {
	return domain.Factors{
		CommitsCount:      signals.CommitsCount,
		TasksInProgress:   signals.TasksInProgress,
		CompletedTasks:    signals.CompletedTasks,
		OverdueTasks:      signals.OverdueTasks,
		PullRequestsCount: signals.PullRequestsCount,
	}
}
