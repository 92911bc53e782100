package services

import (
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/domain"
)

// FallbackAnalysis is the fixed analysis text for fallback scores.
const FallbackAnalysis = "Score calculated with the rule-based fallback heuristic; AI analysis was unavailable."

// FallbackRecommendations is the fixed advice attached to fallback
// scores.
var FallbackRecommendations = []string{
	"Take regular breaks during the workday",
	"Prioritize tasks and defer what can wait",
	"Communicate workload concerns with your team",
}

// FallbackComputation is the deterministic scoring path used when every
// candidate model has failed. Pure function: no I/O, never fails.
//
// Pull request counts are not sampled by the heuristic, so
// Factors.PullRequestsCount is always 0 on this path.
func FallbackComputation(signals domain.SignalBundle) *Computation {
	score := 0

	switch {
	case signals.CommitsCount > 50:
		score += 30
	case signals.CommitsCount > 30:
		score += 20
	case signals.CommitsCount > 15:
		score += 10
	}

	switch {
	case signals.TasksInProgress > 8:
		score += 35
	case signals.TasksInProgress > 5:
		score += 25
	case signals.TasksInProgress > 3:
		score += 15
	}

	switch {
	case signals.OverdueTasks > 5:
		score += 25
	case signals.OverdueTasks > 2:
		score += 15
	}

	if signals.CompletedTasks > 20 {
		score += 10
	}

	if score > 100 {
		score = 100
	}

	return &Computation{
		Score:     score,
		RiskLevel: domain.ClassifyRisk(score),
		Factors: domain.Factors{
			CommitsCount:      signals.CommitsCount,
			TasksInProgress:   signals.TasksInProgress,
			CompletedTasks:    signals.CompletedTasks,
			OverdueTasks:      signals.OverdueTasks,
			PullRequestsCount: 0,
		},
		Analysis:        FallbackAnalysis,
		Recommendations: FallbackRecommendations,
		ModelUsed:       domain.FallbackModel,
	}
}
